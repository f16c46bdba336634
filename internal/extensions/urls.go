package extensions

import (
	"context"
	"fmt"
	"net/url"

	"github.com/appforge-dev/appforge/internal/branding"
)

// PublishURLOptions identifies a deployed extension on the partners dashboard.
type PublishURLOptions struct {
	PartnersFQDN   string // defaults to the branded partners host
	OrganizationID string
	AppID          string
	ExtensionID    string
}

// defaultPublishURL builds
// https://{fqdn}/{org}/apps/{app}/extensions/{partnersWebId}/{extensionId}.
func defaultPublishURL(_ context.Context, spec *Spec, opts PublishURLOptions) (string, error) {
	if opts.OrganizationID == "" || opts.AppID == "" || opts.ExtensionID == "" {
		return "", fmt.Errorf("publish URL for %s: organization, app and extension IDs are required", spec.Identifier())
	}
	fqdn := opts.PartnersFQDN
	if fqdn == "" {
		fqdn = branding.PartnersFQDN()
	}

	return fmt.Sprintf("https://%s/%s/apps/%s/extensions/%s/%s",
		fqdn,
		url.PathEscape(opts.OrganizationID),
		url.PathEscape(opts.AppID),
		spec.PartnersWebID(),
		url.PathEscape(opts.ExtensionID),
	), nil
}

// ResourceURLOptions carries the store URLs a dev preview may open.
type ResourceURLOptions struct {
	CheckoutCartURL        string
	SubscriptionProductURL string
}

// ResourceURL returns the storefront URL a UI extension of the given type is
// previewed against, or "" when the type has none.
func ResourceURL(extensionType string, opts ResourceURLOptions) string {
	switch {
	case extensionType == "checkout_ui_extension" && opts.CheckoutCartURL != "":
		return opts.CheckoutCartURL
	case extensionType == "product_subscription":
		return opts.SubscriptionProductURL
	default:
		return ""
	}
}
