package catalog

import (
	"context"

	"skouce/models"
)

// Memory is a Catalog backed by fixed slices.
type Memory struct {
	products []models.Product
	facets   []models.FacetGroup
}

func NewMemory(products []models.Product, facets []models.FacetGroup) *Memory {
	return &Memory{products: products, facets: facets}
}

// Seed returns the built-in demo catalog.
func Seed() *Memory {
	return NewMemory(SeedProducts(), DefaultFacets())
}

func (m *Memory) Products(context.Context) ([]models.Product, error) {
	return append([]models.Product(nil), m.products...), nil
}

func (m *Memory) Facets(context.Context) ([]models.FacetGroup, error) {
	return append([]models.FacetGroup(nil), m.facets...), nil
}

const imgBase = "https://images.pexels.com/photos/"

// SeedProducts is the demo collection shown when no database is configured.
func SeedProducts() []models.Product {
	return []models.Product{
		{
			ID: "1", Name: "Royal Heritage", Brand: "Skouce",
			Price: 249999, OriginalPrice: models.Rupees(299999),
			Rating: 4.9, Reviews: 128, Style: "Luxury", Color: "Gold",
			Image:      imgBase + "277390/pexels-photo-277390.jpeg",
			Images:     []string{imgBase + "277390/pexels-photo-277390.jpeg", imgBase + "190819/pexels-photo-190819.jpeg"},
			Has360View: true,
			Specs: models.Specs{
				Movement: "Automatic", CaseSize: "42mm", CaseMaterial: "Stainless Steel",
				StrapMaterial: "Leather", WaterResistance: "100m",
				Features: []string{"Date Display", "Luminous Hands", "Sapphire Crystal"},
				Warranty: "2 Years",
			},
		},
		{
			ID: "2", Name: "Urban Classic", Brand: "Metropolitan",
			Price:  159999,
			Rating: 4.8, Reviews: 96, Style: "Classic", Color: "Silver",
			Image: imgBase + "1697214/pexels-photo-1697214.jpeg",
			Specs: models.Specs{
				Movement: "Quartz", CaseSize: "40mm", CaseMaterial: "Titanium",
				StrapMaterial: "Metal Bracelet", WaterResistance: "50m",
				Features: []string{"Chronograph", "Date Display", "Anti-Reflective"},
				Warranty: "3 Years",
			},
		},
		{
			ID: "3", Name: "Sport Elite", Brand: "ActiveTime",
			Price:  134999,
			Rating: 4.7, Reviews: 203, Style: "Sport", Color: "Black",
			Image:      imgBase + "1034063/pexels-photo-1034063.jpeg",
			Has360View: true,
			Specs: models.Specs{
				Movement: "Solar Powered", CaseSize: "44mm", CaseMaterial: "Carbon Fiber",
				StrapMaterial: "Rubber", WaterResistance: "200m",
				Features: []string{"GPS", "Heart Rate Monitor", "Bluetooth"},
				Warranty: "5 Years",
			},
		},
		{
			ID: "4", Name: "Luxury Crown", Brand: "Premium",
			Price: 359999, OriginalPrice: models.Rupees(419999),
			Rating: 5.0, Reviews: 45, Style: "Luxury", Color: "Rose Gold",
			Image: imgBase + "125779/pexels-photo-125779.jpeg",
			Specs: models.Specs{
				Movement: "Automatic", CaseSize: "41mm", CaseMaterial: "18k Rose Gold",
				StrapMaterial: "Leather", WaterResistance: "50m",
				Features: []string{"Moon Phase", "Exhibition Caseback", "Sapphire Crystal"},
				Warranty: "5 Years",
			},
		},
		{
			ID: "5", Name: "Ocean Diver", Brand: "Seiko",
			Price:  38999,
			Rating: 4.6, Reviews: 312, Style: "Diving", Color: "Blue",
			Specs: models.Specs{
				Movement: "Automatic", CaseSize: "44mm", CaseMaterial: "Stainless Steel",
				StrapMaterial: "Rubber", WaterResistance: "200m",
				Features: []string{"Unidirectional Bezel", "Screw-down Crown"},
				Warranty: "2 Years",
			},
		},
		{
			ID: "6", Name: "Eco Navigator", Brand: "Citizen",
			Price:  27999,
			Rating: 4.5, Reviews: 187, Style: "Casual", Color: "Black",
			Specs: models.Specs{
				Movement: "Solar Powered", CaseSize: "42mm", CaseMaterial: "Stainless Steel",
				StrapMaterial: "Fabric", WaterResistance: "100m",
				Features: []string{"Power Reserve Indicator", "Date Display"},
				Warranty: "5 Years",
			},
		},
		{
			ID: "7", Name: "G-Pulse Smart", Brand: "Casio",
			Price:  18999,
			Rating: 4.3, Reviews: 540, Style: "Sport", Color: "Black",
			Specs: models.Specs{
				Movement: "Smartwatch", CaseSize: "46mm", CaseMaterial: "Resin",
				StrapMaterial: "Rubber", WaterResistance: "200m",
				Features: []string{"Step Counter", "Bluetooth", "Shock Resistant"},
				Warranty: "1 Year",
			},
		},
		{
			ID: "8", Name: "Heritage Dress", Brand: "Tissot",
			Price: 54999, OriginalPrice: models.Rupees(61999),
			Rating: 4.6, Reviews: 76, Style: "Dress", Color: "White",
			Specs: models.Specs{
				Movement: "Quartz", CaseSize: "39mm", CaseMaterial: "Stainless Steel",
				StrapMaterial: "Leather", WaterResistance: "30m",
				Features: []string{"Slim Profile", "Sapphire Crystal"},
				Warranty: "2 Years",
			},
		},
	}
}

// DefaultFacets is the storefront's filter sidebar.
func DefaultFacets() []models.FacetGroup {
	return []models.FacetGroup{
		{
			ID: "brand", Label: "Brand", Kind: models.FacetChoice,
			Options: []models.FacetOption{
				{ID: "skouce", Label: "Skouce", Count: 1},
				{ID: "metropolitan", Label: "Metropolitan", Count: 1},
				{ID: "activetime", Label: "ActiveTime", Count: 1},
				{ID: "premium", Label: "Premium", Count: 1},
				{ID: "seiko", Label: "Seiko", Count: 1},
				{ID: "citizen", Label: "Citizen", Count: 1},
				{ID: "casio", Label: "Casio", Count: 1},
				{ID: "tissot", Label: "Tissot", Count: 1},
			},
		},
		{ID: "price", Label: "Price Range (₹)", Kind: models.FacetRange, Min: 10000, Max: 500000, Unit: "₹"},
		{
			ID: "style", Label: "Style", Kind: models.FacetChoice,
			Options: []models.FacetOption{
				{ID: "luxury", Label: "Luxury", Count: 2},
				{ID: "sport", Label: "Sport", Count: 2},
				{ID: "classic", Label: "Classic", Count: 1},
				{ID: "casual", Label: "Casual", Count: 1},
				{ID: "dress", Label: "Dress", Count: 1},
				{ID: "diving", Label: "Diving", Count: 1},
			},
		},
		{
			ID: "color", Label: "Color", Kind: models.FacetChoice,
			Options: []models.FacetOption{
				{ID: "black", Label: "Black", Count: 3},
				{ID: "silver", Label: "Silver", Count: 1},
				{ID: "gold", Label: "Gold", Count: 1},
				{ID: "blue", Label: "Blue", Count: 1},
				{ID: "white", Label: "White", Count: 1},
				{ID: "rose-gold", Label: "Rose Gold", Count: 1},
			},
		},
		{
			ID: "strap", Label: "Strap Type", Kind: models.FacetChoice,
			Options: []models.FacetOption{
				{ID: "metal", Label: "Metal Bracelet", Count: 1},
				{ID: "leather", Label: "Leather", Count: 3},
				{ID: "rubber", Label: "Rubber/Silicone", Count: 3},
				{ID: "fabric", Label: "Fabric/NATO", Count: 1},
				{ID: "ceramic", Label: "Ceramic"},
			},
		},
		{
			ID: "movement", Label: "Movement", Kind: models.FacetChoice,
			Options: []models.FacetOption{
				{ID: "automatic", Label: "Automatic", Count: 3},
				{ID: "quartz", Label: "Quartz", Count: 2},
				{ID: "smartwatch", Label: "Smartwatch", Count: 1},
				{ID: "solar", Label: "Solar Powered", Count: 2},
				{ID: "kinetic", Label: "Kinetic"},
			},
		},
		{
			ID: "water-resistance", Label: "Water Resistance", Kind: models.FacetChoice,
			Options: []models.FacetOption{
				{ID: "30m", Label: "30m (Splash Resistant)", Count: 1},
				{ID: "50m", Label: "50m (Swimming)", Count: 2},
				{ID: "100m", Label: "100m (Snorkeling)", Count: 2},
				{ID: "200m", Label: "200m (Diving)", Count: 3},
				{ID: "300m+", Label: "300m+ (Professional)"},
			},
		},
		{ID: "case-size", Label: "Case Size (mm)", Kind: models.FacetRange, Min: 28, Max: 50, Unit: "mm"},
	}
}
