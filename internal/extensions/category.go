package extensions

import "fmt"

// Category groups specifications that share a registry and a configuration
// file name.
type Category string

const (
	CategoryUI       Category = "ui"
	CategoryTheme    Category = "theme"
	CategoryFunction Category = "function"
)

// Categories lists every category in the order extensions are reported.
var Categories = []Category{CategoryUI, CategoryTheme, CategoryFunction}

// ParseCategory converts a string to a Category.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown extension category %q", s)
}

// Surface is the platform placement an extension targets.
type Surface string

const (
	SurfaceCheckout         Surface = "checkout"
	SurfacePostPurchase     Surface = "post_purchase"
	SurfaceCustomerAccounts Surface = "customer_accounts"
	SurfacePOS              Surface = "pos"
	SurfaceAdmin            Surface = "admin"
	SurfaceUnknown          Surface = "unknown"
)

// Surfaces contains all valid surface values.
var Surfaces = []Surface{
	SurfaceCheckout,
	SurfacePostPurchase,
	SurfaceCustomerAccounts,
	SurfacePOS,
	SurfaceAdmin,
	SurfaceUnknown,
}

// ParseSurface converts a string to a Surface.
func ParseSurface(s string) (Surface, bool) {
	for _, surface := range Surfaces {
		if string(surface) == s {
			return surface, true
		}
	}
	return "", false
}
