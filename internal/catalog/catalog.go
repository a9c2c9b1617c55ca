// Package catalog содержит справочник категорий морских закупок.
package catalog

import (
	"shipsupply/models"
)

type Category struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	NameTR        string              `json:"nameTr"`
	SupplierType  models.SupplierType `json:"supplierType"`
	Subcategories []string            `json:"subcategories"`
}

var categories = []Category{
	{ID: "spare_parts", Name: "Spare Parts", NameTR: "Yedek Parça", SupplierType: models.SupplierTypeSupplier,
		Subcategories: []string{"main_engine", "auxiliary_engine", "pumps", "compressors", "valves", "electrical"}},
	{ID: "provisions", Name: "Provisions", NameTR: "Kumanya", SupplierType: models.SupplierTypeSupplier,
		Subcategories: []string{"fresh", "frozen", "dry", "bonded"}},
	{ID: "deck_stores", Name: "Deck & Engine Stores", NameTR: "Güverte ve Makine Malzemeleri", SupplierType: models.SupplierTypeSupplier,
		Subcategories: []string{"ropes", "paints", "chemicals", "safety_equipment", "tools"}},
	{ID: "lubricants", Name: "Lubricants & Bunkers", NameTR: "Yağlar ve Yakıt", SupplierType: models.SupplierTypeSupplier,
		Subcategories: []string{"lube_oil", "grease", "marine_gas_oil", "fuel_oil"}},
	{ID: "technical_services", Name: "Technical Services", NameTR: "Teknik Hizmetler", SupplierType: models.SupplierTypeServiceProvider,
		Subcategories: []string{"engine_overhaul", "electrical_repair", "automation", "welding"}},
	{ID: "port_services", Name: "Port Services", NameTR: "Liman Hizmetleri", SupplierType: models.SupplierTypeServiceProvider,
		Subcategories: []string{"agency", "waste_disposal", "crew_change", "launch_boat"}},
	{ID: "surveys", Name: "Surveys & Inspections", NameTR: "Sörvey ve Denetimler", SupplierType: models.SupplierTypeServiceProvider,
		Subcategories: []string{"class_survey", "hull_inspection", "underwater_inspection", "calibration"}},
}

// Categories возвращает копию справочника
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

func find(id string) (Category, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

func ValidCategory(id string) bool {
	_, ok := find(id)
	return ok
}

// ValidSubcategory проверяет подкатегорию; пустая подкатегория допустима.
func ValidSubcategory(categoryID, sub string) bool {
	c, ok := find(categoryID)
	if !ok {
		return false
	}
	if sub == "" {
		return true
	}
	for _, s := range c.Subcategories {
		if s == sub {
			return true
		}
	}
	return false
}

// DefaultsFor возвращает категории, которые получает поставщик данного типа при автозаполнении.
func DefaultsFor(t models.SupplierType) []string {
	var ids []string
	for _, c := range categories {
		if c.SupplierType == t {
			ids = append(ids, c.ID)
		}
	}
	return ids
}
