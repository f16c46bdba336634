package specifications

import "github.com/appforge-dev/appforge/internal/extensions"

// ThemeAppExtension adds blocks and snippets to online store themes. It uses
// the default deploy config.
var ThemeAppExtension = extensions.MustNewSpec(extensions.Descriptor{
	Identifier:    "theme",
	Category:      extensions.CategoryTheme,
	Surface:       extensions.SurfaceUnknown,
	GraphQLType:   "theme_app_extension",
	PartnersWebID: "theme_app_extension",
	Schema:        extensions.BaseExtensionSchema,
})
