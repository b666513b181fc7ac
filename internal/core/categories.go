package core

// defaultCategories is the seed set written on first run, when no
// categories document exists yet. Ids are stable and referenced by
// transactions, so they must never change.
var defaultCategories = []Category{
	// Expense
	{ID: "exp_food", Name: "飲食", Icon: "fast-food", Type: Expense, Color: "#FF9500"},
	{ID: "exp_transport", Name: "交通", Icon: "bus", Type: Expense, Color: "#007AFF"},
	{ID: "exp_shopping", Name: "購物", Icon: "cart", Type: Expense, Color: "#FF2D55"},
	{ID: "exp_housing", Name: "居住", Icon: "home", Type: Expense, Color: "#5856D6"},
	{ID: "exp_entertainment", Name: "娛樂", Icon: "game-controller", Type: Expense, Color: "#AF52DE"},
	{ID: "exp_other", Name: "其他支出", Icon: "ellipsis-horizontal", Type: Expense, Color: "#8E8E93"},

	// Income
	{ID: "inc_salary", Name: "薪資", Icon: "cash", Type: Income, Color: "#34C759"},
	{ID: "inc_bonus", Name: "獎金", Icon: "gift", Type: Income, Color: "#FFCC00"},
	{ID: "inc_other", Name: "其他收入", Icon: "add-circle", Type: Income, Color: "#5AC8FA"},
}

// UnknownCategory is the render fallback for dangling category
// references. A deleted category never turns a read into an error; the
// transaction simply degrades to this display state.
var UnknownCategory = Category{
	ID:    "",
	Name:  "未分類",
	Icon:  "help-circle",
	Color: "#8E8E93",
}

// DefaultCategories returns a fresh copy of the seed set, preserving
// the default display order.
func DefaultCategories() []Category {
	out := make([]Category, len(defaultCategories))
	copy(out, defaultCategories)
	return out
}
