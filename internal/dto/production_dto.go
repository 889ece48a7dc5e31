package dto

type RecordProductionRequest struct {
	Date     string `json:"date"     validate:"required,datetime=2006-01-02"`
	Quantity int    `json:"quantity" validate:"min=0"`
}
