// Package templates embeds the dashboard's HTML views.
package templates

import (
	"embed"
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/template/html/v2"

	"retaildash/models"
	"retaildash/utils"
	"retaildash/views"
)

//go:embed layouts/*.gohtml partials/*.gohtml views/*.gohtml
var files embed.FS

var tabLabels = map[string]string{
	views.TabInventory:   "Inventory",
	views.TabSales:       "Record Sale",
	views.TabAbcAnalysis: "ABC Analysis",
	views.TabReorder:     "Reorder",
}

// NewEngine returns the fiber view engine over the embedded templates.
func NewEngine() *html.Engine {
	engine := html.NewFileSystem(http.FS(files), ".gohtml")
	engine.AddFuncMap(map[string]interface{}{
		"money":       utils.Money,
		"wholeMoney":  utils.WholeMoney,
		"percent":     utils.Percent,
		"oneDecimal":  utils.OneDecimal,
		"roleLabel":   utils.RoleLabel,
		"stockStatus": views.StockStatusOf,
		"abcCategory": views.AbcCategoryOf,
		"tabLabel":    func(tab string) string { return tabLabels[tab] },
		"date": func(ts models.Timestamp) string {
			return utils.Date(ts.Time)
		},
		"saleTotal": func(f views.SaleFields) string {
			total, ok := f.Total()
			if !ok {
				return ""
			}
			return utils.Money(total)
		},
		"dict":     dict,
		"lowStock": func(stock int) bool { return stock < 10 },
	})
	return engine
}

// dict builds a map from alternating keys and values for passing several values
// to a partial.
func dict(pairs ...interface{}) (map[string]interface{}, error) {
	if len(pairs)%2 != 0 {
		return nil, errors.New("dict expects key/value pairs")
	}
	m := make(map[string]interface{}, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict key %v is not a string", pairs[i])
		}
		m[key] = pairs[i+1]
	}
	return m, nil
}
