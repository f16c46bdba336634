package partners

import (
	"context"
	"fmt"

	"github.com/appforge-dev/appforge/internal/extensions"
)

const specificationsQuery = `query fetchSpecifications {
  extensionSpecifications {
    identifier
    name
    externalIdentifier
    externalName
    graphQLType
    gated
    registrationLimit
    surface
  }
}`

type specificationsData struct {
	ExtensionSpecifications []extensions.RemoteSpecification `json:"extensionSpecifications"`
}

// FetchSpecifications returns the extension specifications known to the platform.
func (c *Client) FetchSpecifications(ctx context.Context) ([]extensions.RemoteSpecification, error) {
	var data specificationsData
	if err := c.Request(ctx, specificationsQuery, nil, &data); err != nil {
		return nil, fmt.Errorf("fetching extension specifications: %w", err)
	}
	return data.ExtensionSpecifications, nil
}
