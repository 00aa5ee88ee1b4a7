package oeclient

import (
	"github.com/sirupsen/logrus"
)

// pageFetch pulls one page and returns how many items it carried and its
// reported total_page (0 when the endpoint omits page_info).
type pageFetch func(page int) (items int, totalPage int, err error)

// forEachPage walks list endpoints page by page. It stops on the reported
// total_page, on an empty page, or on a short page when no total_page is
// reported. The platform rejects page*page_size beyond the depth ceiling,
// so the walk stops there with a warning instead of tripping the limit.
func (c *OEClient) forEachPage(api string, pageSize int, fetch pageFetch) error {
	ceiling := c.cfg.OceanEngine.PageDepthCeiling

	page := 1
	for {
		if ceiling > 0 && page*pageSize > ceiling {
			logrus.WithFields(logrus.Fields{
				"api":     api,
				"page":    page,
				"ceiling": ceiling,
			}).Warn("Pagination depth ceiling reached, result set truncated")
			return nil
		}

		items, totalPage, err := fetch(page)
		if err != nil {
			return err
		}
		if items == 0 {
			return nil
		}
		if totalPage > 0 {
			if page >= totalPage {
				return nil
			}
		} else if items < pageSize {
			return nil
		}
		page++
	}
}

func (c *OEClient) pageSize() int {
	if c.cfg.OceanEngine.PageSize > 0 {
		return c.cfg.OceanEngine.PageSize
	}
	return 100
}
