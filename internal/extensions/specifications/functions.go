package specifications

import (
	"context"
	"fmt"

	"github.com/appforge-dev/appforge/internal/extensions"
)

// ProductDiscounts and the other function kinds share one schema and deploy
// transform; they differ only in the API they implement.
var (
	ProductDiscounts      = functionSpec("product_discounts", "Product discount")
	OrderDiscounts        = functionSpec("order_discounts", "Order discount")
	ShippingDiscounts     = functionSpec("shipping_discounts", "Shipping discount")
	PaymentCustomization  = functionSpec("payment_customization", "Payment customization")
	DeliveryCustomization = functionSpec("delivery_customization", "Delivery customization")
)

func functionSpec(identifier, name string) *extensions.Spec {
	return extensions.MustNewSpec(extensions.Descriptor{
		Identifier:   identifier,
		ExternalName: name,
		Category:     extensions.CategoryFunction,
		Schema:       extensions.BaseFunctionConfigurationSchema,
		DeployConfig: functionDeployConfig(identifier),
	})
}

func functionDeployConfig(apiType string) extensions.DeployConfigFunc {
	return func(_ context.Context, config extensions.Configuration, _ string) (map[string]any, error) {
		var fn extensions.FunctionConfiguration
		if err := config.Decode(&fn); err != nil {
			return nil, fmt.Errorf("decoding %s configuration: %w", apiType, err)
		}

		payload := map[string]any{
			"title":              fn.Name,
			"description":        fn.Description,
			"api_type":           apiType,
			"api_version":        fn.APIVersion,
			"enable_creation_ui": fn.ConfigurationUI,
		}
		if fn.UI != nil && fn.UI.Paths != nil {
			payload["ui_paths"] = map[string]any{
				"create":  fn.UI.Paths.Create,
				"details": fn.UI.Paths.Details,
			}
		}
		return payload, nil
	}
}
