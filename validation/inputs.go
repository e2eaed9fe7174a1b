package validation

import "chakula-api/models"

type CreateAPIKeyInput struct {
	Name string `json:"name" binding:"required,min=3,max=255"`
}

type CreateMealInput struct {
	Name        string     `json:"name" binding:"required,min=3,max=255"`
	Description *string    `json:"description"`
	Category    StringList `json:"category" binding:"required,min=1,dive,min=3"`
	ImageURL    StringList `json:"image_url" binding:"required,min=1,dive,url"`
}

func (in *CreateMealInput) ToModel() *models.Meal {
	return &models.Meal{
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category.StringArray(),
		ImageURL:    in.ImageURL.StringArray(),
	}
}
