package models

import "time"

type ProductCategory string

const (
	CategoryFlower       ProductCategory = "flower"
	CategoryEdibles      ProductCategory = "edibles"
	CategoryVapes        ProductCategory = "vapes"
	CategoryConcentrates ProductCategory = "concentrates"
	CategoryPrerolls     ProductCategory = "prerolls"
	CategoryAccessories  ProductCategory = "accessories"
	CategoryTopicals     ProductCategory = "topicals"
)

func (c ProductCategory) Valid() bool {
	switch c {
	case CategoryFlower, CategoryEdibles, CategoryVapes, CategoryConcentrates,
		CategoryPrerolls, CategoryAccessories, CategoryTopicals:
		return true
	}
	return false
}

type StrainType string

const (
	StrainIndica StrainType = "indica"
	StrainSativa StrainType = "sativa"
	StrainHybrid StrainType = "hybrid"
)

type Product struct {
	ID             string          `db:"id" json:"id"`
	Title          string          `db:"title" json:"title"`
	Description    *string         `db:"description" json:"description"`
	Category       ProductCategory `db:"category" json:"category"`
	StrainType     *StrainType     `db:"strain_type" json:"strain_type"`
	THCPotency     *float64        `db:"thc_potency" json:"thc_potency"`
	CBDPotency     *float64        `db:"cbd_potency" json:"cbd_potency"`
	Price          float64         `db:"price" json:"price"`
	CompareAtPrice *float64        `db:"compare_at_price" json:"compare_at_price"`
	Stock          int             `db:"stock" json:"stock"`
	BatchLot       *string         `db:"batch_lot" json:"batch_lot"`
	Images         StringList      `db:"images" json:"images"`
	WeightGrams    *float64        `db:"weight_grams" json:"weight_grams"`
	IsActive       bool            `db:"is_active" json:"is_active"`
	IsFeatured     bool            `db:"is_featured" json:"is_featured"`
	Tags           StringList      `db:"tags" json:"tags"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`
}
