package wishlist

import "time"

// MaxQuantity bounds how many units of one product a family can ask for.
const MaxQuantity = 100

// Item is one requested product in a set-sync.
type Item struct {
	ProductID string `json:"productId" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"gte=1,lte=100"`
}

// DesiredItem is a product a beneficiary family asks donors for.
type DesiredItem struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	ProductID string    `db:"product_id"`
	Quantity  int       `db:"quantity"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// GroupedItem is a desired item joined with its product.
type GroupedItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	ImageURL  *string `json:"imageUrl,omitempty"`
	Price     float64 `json:"price"`
	Currency  string  `json:"currency"`
	Quantity  int     `json:"quantity"`
}

// CategoryGroup lists a family's desired items under one category.
type CategoryGroup struct {
	CategoryID   string        `json:"categoryId"`
	CategoryName string        `json:"categoryName"`
	CategoryIcon *string       `json:"categoryIcon,omitempty"`
	Items        []GroupedItem `json:"items"`
}

// groupedRow is the flat shape read from the database.
type groupedRow struct {
	UserID       string  `db:"user_id"`
	CategoryID   string  `db:"category_id"`
	CategoryName string  `db:"category_name"`
	CategoryIcon *string `db:"category_icon"`
	ProductID    string  `db:"product_id"`
	Name         string  `db:"name"`
	ImageURL     *string `db:"image_url"`
	Price        float64 `db:"price"`
	Currency     string  `db:"currency"`
	Quantity     int     `db:"quantity"`
}

// group folds rows already ordered by category into category groups.
func group(rows []groupedRow) []CategoryGroup {
	out := []CategoryGroup{}
	index := map[string]int{}
	for _, r := range rows {
		i, ok := index[r.CategoryID]
		if !ok {
			i = len(out)
			index[r.CategoryID] = i
			out = append(out, CategoryGroup{CategoryID: r.CategoryID, CategoryName: r.CategoryName, CategoryIcon: r.CategoryIcon})
		}
		out[i].Items = append(out[i].Items, GroupedItem{
			ProductID: r.ProductID,
			Name:      r.Name,
			ImageURL:  r.ImageURL,
			Price:     r.Price,
			Currency:  r.Currency,
			Quantity:  r.Quantity,
		})
	}
	return out
}
