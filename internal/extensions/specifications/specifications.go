package specifications

import (
	"github.com/appforge-dev/appforge/internal/extensions"
)

// All returns every local specification: UI kinds first, then theme, then functions.
func All() []*extensions.Spec {
	var out []*extensions.Spec
	out = append(out, UI()...)
	out = append(out, Theme()...)
	out = append(out, Function()...)
	return out
}

// UI returns the UI extension specifications.
func UI() []*extensions.Spec {
	return []*extensions.Spec{
		CheckoutUIExtension,
		CheckoutUIExtensionBeta,
		CheckoutPostPurchase,
		ProductSubscription,
		POSUIExtension,
		CustomerAccountsUIExtension,
	}
}

// Theme returns the theme extension specifications.
func Theme() []*extensions.Spec {
	return []*extensions.Spec{ThemeAppExtension}
}

// Function returns the function extension specifications.
func Function() []*extensions.Spec {
	return []*extensions.Spec{
		ProductDiscounts,
		OrderDiscounts,
		ShippingDiscounts,
		PaymentCustomization,
		DeliveryCustomization,
	}
}

// ByCategory returns the specifications of one category.
func ByCategory(c extensions.Category) []*extensions.Spec {
	switch c {
	case extensions.CategoryUI:
		return UI()
	case extensions.CategoryTheme:
		return Theme()
	case extensions.CategoryFunction:
		return Function()
	default:
		return nil
	}
}

// uiPayload holds the deploy fields shared by every UI extension.
func uiPayload(config extensions.Configuration) map[string]any {
	payload := map[string]any{}
	copyKey(payload, "extension_points", config, "extensionPoints")
	copyKey(payload, "capabilities", config, "capabilities")
	copyKey(payload, "metafields", config, "metafields")
	payload["name"] = config.Name()
	return payload
}

func copyKey(payload map[string]any, to string, config extensions.Configuration, from string) {
	if v, ok := config.Value(from); ok {
		payload[to] = v
	}
}
