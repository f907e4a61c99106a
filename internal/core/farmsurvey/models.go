// Package farmsurvey holds the agriculture survey collection and its
// draft, submitted and verified workflow.
package farmsurvey

import (
	"time"

	"github.com/appshelf/appshelf/internal/core/collection"
	"github.com/appshelf/appshelf/internal/core/schema"
)

const CollectionName = "farm-surveys"

const (
	StatusDraft     = "draft"
	StatusSubmitted = "submitted"
	StatusVerified  = "verified"
)

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty"`
}

type Field struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Area           float64  `json:"area"`
	Location       Location `json:"location"`
	SoilType       string   `json:"soilType"`
	IrrigationType string   `json:"irrigationType"`
}

type Crop struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Variety       string   `json:"variety"`
	PlantingDate  string   `json:"plantingDate"`
	HarvestDate   string   `json:"harvestDate,omitempty"`
	ExpectedYield *float64 `json:"expectedYield,omitempty"`
	ActualYield   *float64 `json:"actualYield,omitempty"`
	Unit          string   `json:"unit"`
}

type Survey struct {
	collection.Envelope
	UserID      string   `json:"userId"`
	FarmerID    string   `json:"farmerId"`
	FarmerName  string   `json:"farmerName"`
	FarmerPhone string   `json:"farmerPhone,omitempty"`
	Field       Field    `json:"field"`
	Crops       []Crop   `json:"crops"`
	Notes       string   `json:"notes,omitempty"`
	Photos      []string `json:"photos,omitempty"`
	Status      string   `json:"status"`
}

func Definition() *collection.Definition[Survey] {
	location := schema.ObjectOf(map[string]*schema.Property{
		"latitude":  schema.Number(),
		"longitude": schema.Number(),
		"address":   schema.String(),
	}, "latitude", "longitude")

	field := schema.ObjectOf(map[string]*schema.Property{
		"id":             schema.String(),
		"name":           schema.Text(),
		"area":           schema.NonNegative(),
		"location":       location,
		"soilType":       schema.String(),
		"irrigationType": schema.String(),
	}, "name", "area")

	crop := schema.ObjectOf(map[string]*schema.Property{
		"id":            schema.String(),
		"name":          schema.Text(),
		"variety":       schema.String(),
		"plantingDate":  schema.String(),
		"harvestDate":   schema.String(),
		"expectedYield": schema.NonNegative(),
		"actualYield":   schema.NonNegative(),
		"unit":          schema.Enum("kg", "ton", "quintal"),
	}, "name", "unit")

	return &collection.Definition[Survey]{
		Name: CollectionName,
		Schema: schema.Object("agriculture survey", map[string]*schema.Property{
			"userId":      schema.Text(),
			"farmerId":    schema.String(),
			"farmerName":  schema.Text(),
			"farmerPhone": schema.String(),
			"field":       field,
			"crops":       schema.ArrayOf(crop),
			"notes":       schema.String(),
			"photos":      schema.ArrayOf(schema.String()),
			"status":      schema.Enum(StatusDraft, StatusSubmitted, StatusVerified),
		}, []string{"userId", "farmerName", "field"}),
		Envelope:     func(s *Survey) *collection.Envelope { return &s.Envelope },
		SearchFields: func(s *Survey) []string { return []string{s.FarmerName, s.Notes, s.Field.Name} },
		Filters: map[string]func(*Survey) string{
			"status":   func(s *Survey) string { return s.Status },
			"userId":   func(s *Survey) string { return s.UserID },
			"farmerId": func(s *Survey) string { return s.FarmerID },
		},
		DisplayName: func(s *Survey) string { return s.FarmerName },
		Defaults: func(p map[string]interface{}, _ time.Time) {
			p["status"] = StatusDraft
			if _, ok := p["crops"]; !ok {
				p["crops"] = []interface{}{}
			}
		},
		Placement:    collection.Append,
		DefaultLimit: collection.DefaultLimit,
	}
}
