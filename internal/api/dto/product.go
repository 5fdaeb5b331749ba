package dto

type ProductResponse struct {
	ProductID   string `json:"product_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type ListProductsResponse struct {
	Products []ProductResponse `json:"products"`
}
