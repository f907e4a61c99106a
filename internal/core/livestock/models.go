// Package livestock holds the livestock survey collection.
package livestock

import (
	"github.com/appshelf/appshelf/internal/core/collection"
	"github.com/appshelf/appshelf/internal/core/schema"
)

const CollectionName = "surveys"

var (
	LivestockTypes = []string{"sapi", "kambing", "domba", "ayam", "bebek", "kerbau", "lainnya"}
	HealthStatuses = []string{"sehat", "sakit", "karantina"}
	FeedingMethods = []string{"rumput", "pakan-pabrik", "campuran"}
)

type Location struct {
	Province string `json:"province"`
	District string `json:"district"`
	Village  string `json:"village"`
}

type Survey struct {
	collection.Envelope
	FarmerName    string          `json:"farmerName"`
	FarmName      string          `json:"farmName"`
	Location      Location        `json:"location"`
	LivestockType string          `json:"livestockType"`
	Quantity      int             `json:"quantity"`
	HealthStatus  string          `json:"healthStatus"`
	FeedingMethod string          `json:"feedingMethod"`
	Notes         string          `json:"notes,omitempty"`
	SurveyDate    collection.Date `json:"surveyDate"`
	SurveyorID    string          `json:"surveyorId"`
	SurveyorName  string          `json:"surveyorName"`
}

func Definition() *collection.Definition[Survey] {
	return &collection.Definition[Survey]{
		Name: CollectionName,
		Schema: schema.Object("livestock survey", map[string]*schema.Property{
			"farmerName": schema.Text(),
			"farmName":   schema.Text(),
			"location": schema.ObjectOf(map[string]*schema.Property{
				"province": schema.Text(),
				"district": schema.Text(),
				"village":  schema.Text(),
			}, "province", "district", "village"),
			"livestockType": schema.Enum(LivestockTypes...),
			"quantity":      schema.Integer(),
			"healthStatus":  schema.Enum(HealthStatuses...),
			"feedingMethod": schema.Enum(FeedingMethods...),
			"notes":         schema.String(),
			"surveyDate":    schema.Date(),
			"surveyorId":    schema.Text(),
			"surveyorName":  schema.String(),
		}, []string{"farmerName", "farmName", "location", "livestockType", "quantity", "healthStatus", "feedingMethod", "surveyDate", "surveyorId"}),
		Envelope:     func(s *Survey) *collection.Envelope { return &s.Envelope },
		SearchFields: func(s *Survey) []string { return []string{s.FarmerName, s.FarmName, s.Notes} },
		Filters: map[string]func(*Survey) string{
			"livestockType": func(s *Survey) string { return s.LivestockType },
			"healthStatus":  func(s *Survey) string { return s.HealthStatus },
			"feedingMethod": func(s *Survey) string { return s.FeedingMethod },
			"surveyorId":    func(s *Survey) string { return s.SurveyorID },
		},
		DisplayName:  func(s *Survey) string { return s.FarmerName },
		Placement:    collection.Prepend,
		DefaultLimit: collection.DefaultLimit,
	}
}

type Service struct {
	store *collection.Store[Survey]
}

func NewService(store *collection.Store[Survey]) *Service {
	return &Service{store: store}
}

func (s *Service) Store() *collection.Store[Survey] {
	return s.store
}

// BySurveyor returns the surveys recorded by one surveyor, newest first.
func (s *Service) BySurveyor(surveyorID string) []Survey {
	return s.store.Filter(func(sv *Survey) bool { return sv.SurveyorID == surveyorID })
}
