package domain

type Gender string

const (
	GenderMen   Gender = "Men"
	GenderWomen Gender = "Women"
)

// Product is owned by the catalog and never mutated at runtime. Prices are
// whole currency units.
type Product struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Price       int64    `json:"price"`
	Gender      Gender   `json:"gender"`
	Category    string   `json:"category"`
	InStock     bool     `json:"inStock"`
	Rating      float64  `json:"rating"`
	Images      []string `json:"images"`
	Sizes       []string `json:"sizes"`
	Description string   `json:"description,omitempty"`
}

// PrimaryImage is the image snapshotted into cart and wishlist lines.
func (p Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}
