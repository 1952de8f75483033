package catalog

import "github.com/jcmexdev/maison-storefront/internal/catalog/domain"

var seed = []domain.Product{
	{
		ID:          1,
		Name:        "Aurelia Diamond Necklace",
		Price:       1250,
		Gender:      domain.GenderWomen,
		Category:    "Necklaces",
		InStock:     true,
		Rating:      4.9,
		Images:      []string{"/images/products/aurelia-necklace-1.jpg", "/images/products/aurelia-necklace-2.jpg"},
		Sizes:       []string{"16in", "18in"},
		Description: "18k gold chain with a pavé diamond pendant.",
	},
	{
		ID:          2,
		Name:        "Celeste Pearl Earrings",
		Price:       480,
		Gender:      domain.GenderWomen,
		Category:    "Earrings",
		InStock:     true,
		Rating:      4.7,
		Images:      []string{"/images/products/celeste-earrings-1.jpg"},
		Sizes:       []string{"One Size"},
		Description: "Freshwater pearls on white gold drops.",
	},
	{
		ID:          3,
		Name:        "Noir Onyx Signet Ring",
		Price:       620,
		Gender:      domain.GenderMen,
		Category:    "Rings",
		InStock:     true,
		Rating:      4.6,
		Images:      []string{"/images/products/noir-signet-1.jpg", "/images/products/noir-signet-2.jpg"},
		Sizes:       []string{"8", "9", "10", "11"},
		Description: "Black onyx set in brushed sterling silver.",
	},
	{
		ID:          4,
		Name:        "Regent Chronograph Watch",
		Price:       3400,
		Gender:      domain.GenderMen,
		Category:    "Watches",
		InStock:     true,
		Rating:      4.8,
		Images:      []string{"/images/products/regent-watch-1.jpg"},
		Sizes:       []string{"40mm", "42mm"},
		Description: "Swiss automatic movement, sapphire crystal.",
	},
	{
		ID:          5,
		Name:        "Lumière Tennis Bracelet",
		Price:       2100,
		Gender:      domain.GenderWomen,
		Category:    "Bracelets",
		InStock:     false,
		Rating:      4.9,
		Images:      []string{"/images/products/lumiere-bracelet-1.jpg"},
		Sizes:       []string{"6.5in", "7in"},
		Description: "A continuous line of brilliant-cut diamonds.",
	},
	{
		ID:          6,
		Name:        "Atlas Leather Cufflinks",
		Price:       210,
		Gender:      domain.GenderMen,
		Category:    "Accessories",
		InStock:     true,
		Rating:      4.3,
		Images:      []string{"/images/products/atlas-cufflinks-1.jpg"},
		Sizes:       []string{"One Size"},
		Description: "Polished steel with Italian leather inlay.",
	},
	{
		ID:          7,
		Name:        "Soleil Silk Scarf",
		Price:       340,
		Gender:      domain.GenderWomen,
		Category:    "Accessories",
		InStock:     true,
		Rating:      4.5,
		Images:      []string{"/images/products/soleil-scarf-1.jpg", "/images/products/soleil-scarf-2.jpg"},
		Sizes:       []string{"90x90cm"},
		Description: "Hand-rolled silk twill, printed in Como.",
	},
	{
		ID:          8,
		Name:        "Vanguard Cashmere Coat",
		Price:       1890,
		Gender:      domain.GenderMen,
		Category:    "Outerwear",
		InStock:     true,
		Rating:      4.7,
		Images:      []string{"/images/products/vanguard-coat-1.jpg"},
		Sizes:       []string{"S", "M", "L", "XL"},
		Description: "Double-faced cashmere, tailored fit.",
	},
	{
		ID:          9,
		Name:        "Éclat Sapphire Ring",
		Price:       1575,
		Gender:      domain.GenderWomen,
		Category:    "Rings",
		InStock:     true,
		Rating:      4.8,
		Images:      []string{"/images/products/eclat-ring-1.jpg"},
		Sizes:       []string{"5", "6", "7"},
		Description: "Ceylon sapphire with a diamond halo.",
	},
	{
		ID:          10,
		Name:        "Meridian Chain Bracelet",
		Price:       450,
		Gender:      domain.GenderMen,
		Category:    "Bracelets",
		InStock:     false,
		Rating:      4.2,
		Images:      []string{"/images/products/meridian-bracelet-1.jpg"},
		Sizes:       []string{"M", "L"},
		Description: "Heavy curb chain in oxidised silver.",
	},
}
