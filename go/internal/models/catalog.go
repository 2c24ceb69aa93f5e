package models

// CatalogItem is one candidate creature supplied by the content provider.
type CatalogItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
}
