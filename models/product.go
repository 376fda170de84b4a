package models

// Specs holds the technical sheet shown on product pages and in comparisons.
type Specs struct {
	Movement        string   `json:"movement" bson:"movement"`
	CaseSize        string   `json:"caseSize" bson:"caseSize"` // e.g. "42mm"
	CaseMaterial    string   `json:"caseMaterial" bson:"caseMaterial"`
	StrapMaterial   string   `json:"strapMaterial" bson:"strapMaterial"`
	WaterResistance string   `json:"waterResistance" bson:"waterResistance"` // e.g. "100m"
	Features        []string `json:"features" bson:"features"`
	Warranty        string   `json:"warranty" bson:"warranty"`
}

// Product is a catalog watch. Prices are whole rupees.
type Product struct {
	ID            string   `json:"id" bson:"productid"`
	Name          string   `json:"name" bson:"name"`
	Brand         string   `json:"brand" bson:"brand"`
	Price         int64    `json:"price" bson:"price"`
	OriginalPrice *int64   `json:"originalPrice,omitempty" bson:"originalPrice,omitempty"`
	Rating        float64  `json:"rating" bson:"rating"`
	Reviews       int      `json:"reviews" bson:"reviews"`
	Style         string   `json:"style,omitempty" bson:"style,omitempty"`
	Color         string   `json:"color,omitempty" bson:"color,omitempty"`
	Image         string   `json:"image,omitempty" bson:"image,omitempty"`
	Images        []string `json:"images,omitempty" bson:"images,omitempty"`
	Has360View    bool     `json:"has360View" bson:"has360View"`
	Specs         Specs    `json:"specs" bson:"specs"`
}

// PriceDropped reports whether the product sells below its original price.
func (p Product) PriceDropped() bool {
	return p.OriginalPrice != nil && *p.OriginalPrice > p.Price
}

// Savings is the drop from the original price, or 0.
func (p Product) Savings() int64 {
	if !p.PriceDropped() {
		return 0
	}
	return *p.OriginalPrice - p.Price
}

// Rupees is a small helper for literal original prices.
func Rupees(v int64) *int64 {
	return &v
}
