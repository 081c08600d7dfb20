package dataworks

import "context"

type ResourceGroup struct {
	ID                ID     `json:"Id"`
	Name              string `json:"Name"`
	Status            string `json:"Status"`
	ResourceGroupType string `json:"ResourceGroupType"`
}

// ListResourceGroups is also used as a cheap credentials check
func (c *Client) ListResourceGroups(ctx context.Context) ([]ResourceGroup, error) {
	var resp struct {
		PagingInfo struct {
			ResourceGroupList []ResourceGroup `json:"ResourceGroupList"`
		} `json:"PagingInfo"`
	}
	if err := c.call(ctx, APIVersion, "ListResourceGroups", nil, &resp); err != nil {
		return nil, err
	}
	return resp.PagingInfo.ResourceGroupList, nil
}
