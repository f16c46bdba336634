package extensions

import "github.com/appforge-dev/appforge/internal/schema"

// MetafieldSchema validates a {namespace, key} pair.
var MetafieldSchema = schema.Object(schema.Fields{
	"namespace": schema.String(),
	"key":       schema.String(),
})

// CapabilitiesSchema validates the optional runtime capabilities of a UI extension.
var CapabilitiesSchema = schema.Object(schema.Fields{
	"network_access": schema.Optional(schema.Boolean()),
	"block_progress": schema.Optional(schema.Boolean()),
})

// TypeSchema extracts the declared type, defaulting to "ui_extension".
var TypeSchema = schema.Object(schema.Fields{
	"type": schema.Default(schema.String(), "ui_extension"),
})

// OldExtensionPointsSchema is the legacy list-of-strings format.
var OldExtensionPointsSchema = schema.Default(schema.Array(schema.String()), []any{})

// NewExtensionPointsSchema is the list of {target, module, metafields} format.
var NewExtensionPointsSchema = schema.Array(schema.Object(schema.Fields{
	"target":     schema.String(),
	"module":     schema.String(),
	"metafields": schema.Default(schema.Array(MetafieldSchema), []any{}),
}))

// ExtensionPointSchema accepts either extension point format, but not a mix.
var ExtensionPointSchema = schema.Optional(schema.Union(OldExtensionPointsSchema, NewExtensionPointsSchema))

// BaseExtensionSchema is shared by UI and theme extensions.
var BaseExtensionSchema = schema.Object(schema.Fields{
	"name":            schema.String(),
	"type":            schema.String(),
	"extensionPoints": ExtensionPointSchema,
	"capabilities":    schema.Optional(CapabilitiesSchema),
	"metafields":      schema.Default(schema.Array(MetafieldSchema), []any{}),
	"categories":      schema.Optional(schema.Array(schema.String())),
})

// BaseFunctionConfigurationSchema is shared by all function extensions.
var BaseFunctionConfigurationSchema = schema.Object(schema.Fields{
	"name":        schema.String(),
	"type":        schema.String(),
	"description": schema.Default(schema.String(), ""),
	"build": schema.Object(schema.Fields{
		"command": schema.String(),
		"path":    schema.Optional(schema.String()),
	}),
	"configurationUi": schema.Default(schema.Boolean(), true),
	"ui": schema.Optional(schema.Object(schema.Fields{
		"paths": schema.Optional(schema.Object(schema.Fields{
			"create":  schema.String(),
			"details": schema.String(),
		})),
	})),
	"apiVersion": schema.String(),
})

// BaseFunctionMetadataSchema validates a function's metadata.json.
var BaseFunctionMetadataSchema = schema.Object(schema.Fields{
	"schemaVersions": schema.Object(schema.Fields{}).Catchall(schema.Object(schema.Fields{
		"major": schema.Number(),
		"minor": schema.Number(),
	})),
})
