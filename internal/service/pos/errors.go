package pos

import "errors"

var (
	// ErrIngredientNotFound indicates the ingredient id is unknown.
	ErrIngredientNotFound = errors.New("ingredient not found")
	// ErrProductNotFound indicates the product id is unknown.
	ErrProductNotFound = errors.New("product not found")
	// ErrCartLineNotFound indicates the cart has no line for the product.
	ErrCartLineNotFound = errors.New("cart line not found")
	// ErrInvalidAmount indicates a quantity that is not a positive finite number.
	ErrInvalidAmount = errors.New("amount must be a positive number")
	// ErrInvalidCost indicates a negative or non-finite unit cost.
	ErrInvalidCost = errors.New("unit cost must be a non-negative number")
	// ErrInvalidPrice indicates a non-finite price.
	ErrInvalidPrice = errors.New("price must be a number")
	// ErrNoRecipe indicates the product cannot be produced from an ingredient.
	ErrNoRecipe = errors.New("product has no recipe")
	// ErrInsufficientStock indicates the ingredient stock cannot cover a conversion.
	ErrInsufficientStock = errors.New("insufficient ingredient stock")
	// ErrEmptyCart indicates checkout was requested with nothing in the cart.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrPersist indicates the snapshot store rejected the write; state is unchanged.
	ErrPersist = errors.New("failed to persist state")
)
