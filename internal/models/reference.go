package models

// Building is a physical site.
type Building struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Service is an organisational unit hosted in a building.
type Service struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	BuildingID *string `json:"building_id,omitempty"`
}

// Location is a room or area belonging to a service.
type Location struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	ServiceID *string `json:"service_id,omitempty"`
}
