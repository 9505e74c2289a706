package models

// Attraction is the externally owned entity images are attached to. The
// pipeline only references it by ID; the catalog itself is static data
// served by the attractions package.
type Attraction struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
}
