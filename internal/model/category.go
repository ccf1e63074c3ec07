package model

type Category struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

type BackendCategory struct {
	ID   ID     `json:"Id"`
	Name string `json:"Name"`
}

func (b BackendCategory) Category() Category {
	return Category{ID: b.ID, Name: b.Name}
}

type CategoryInput struct {
	Name string `json:"name" binding:"required"`
}
