package category

// Input is the body of create and update. The slug is always derived from
// Name and cannot be supplied.
type Input struct {
	Name string `json:"name" validate:"required,max=191"`
}

const (
	msgNotFound   = "Category not found"
	msgNameTaken  = "name has already been taken"
	msgNameNoSlug = "name must contain at least one letter or number"
	msgInUse      = "category is still used by articles"
)
