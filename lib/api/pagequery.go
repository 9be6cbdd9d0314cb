package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"boscoin.io/congress/lib/api/resource"
	"boscoin.io/congress/lib/common"
	"boscoin.io/congress/lib/errors"
	"boscoin.io/congress/lib/storage"
)

// PageQuery is the `{?after,limit,reverse}` part of a list request. `after`
// is the last record of the previous page, in the direction of `reverse`.
type PageQuery struct {
	request *http.Request
	after   string
	reverse bool
	limit   uint64
}

func NewPageQuery(r *http.Request) (*PageQuery, error) {
	p := &PageQuery{
		request: r,
		limit:   storage.DefaultLimitListOptions,
	}
	err := p.parseRequest()
	return p, err
}

func (p *PageQuery) After() string {
	return p.after
}

func (p *PageQuery) Limit() uint64 {
	return p.limit
}

func (p *PageQuery) Reverse() bool {
	return p.reverse
}

// AfterID parses `after` as a proposal id.
func (p *PageQuery) AfterID() (*uint64, error) {
	if len(p.after) < 1 {
		return nil, nil
	}

	id, err := strconv.ParseUint(p.after, 10, 64)
	if err != nil {
		return nil, errors.BadRequestParameter.Clone().SetData("after", p.after)
	}

	return &id, nil
}

func (p *PageQuery) SelfLink() string {
	return p.request.URL.String()
}

// NextLink continues after `last`; there is none when the page was not full.
func (p *PageQuery) NextLink(last string, count int) string {
	if len(last) < 1 || uint64(count) < p.limit {
		return ""
	}

	return fmt.Sprintf("%s?%s", p.request.URL.Path, p.urlValues(last).Encode())
}

func (p *PageQuery) ResourceList(rs []resource.Resource, last string) *resource.ResourceList {
	return resource.NewResourceList(rs, p.SelfLink(), p.NextLink(last, len(rs)), "")
}

func (p *PageQuery) parseRequest() error {
	q := p.request.URL.Query()

	if r := q.Get("reverse"); r != "" {
		reverse, err := common.ParseBoolQueryString(r)
		if err != nil {
			return err
		}
		p.reverse = reverse
	}

	p.after = q.Get("after")

	if l := q.Get("limit"); l != "" {
		limit, err := strconv.ParseUint(l, 10, 64)
		if err != nil {
			return errors.BadRequestParameter.Clone().SetData("limit", l)
		}
		if limit > storage.DefaultMaxLimitListOptions {
			return errors.PageQueryLimitMaxExceed.Clone().SetData("max", storage.DefaultMaxLimitListOptions)
		}
		if limit > 0 {
			p.limit = limit
		}
	}

	return nil
}

func (p PageQuery) urlValues(after string) url.Values {
	v := url.Values{
		"reverse": []string{strconv.FormatBool(p.reverse)},
		"limit":   []string{strconv.FormatUint(p.limit, 10)},
	}
	if len(after) > 0 {
		v.Set("after", after)
	}

	return v
}
