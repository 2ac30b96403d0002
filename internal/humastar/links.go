package humastar

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// Entry is the API entry point every collection links back to.
const Entry = "/health"

// Links maps operation paths to RFC 8288 Link header values.
type Links map[string][]string

// AutoLinks walks the OpenAPI paths and derives hypermedia links between
// them. Operations tagged with one of skipTags (SSE endpoints) are left
// out. Call after all routes are registered.
func AutoLinks(api huma.API, search string, skipTags ...string) Links {
	oapi := api.OpenAPI()
	links := Links{}

	var collections, items []string
	for p, pi := range oapi.Paths {
		if anyTag(primaryTags(pi), skipTags) {
			continue
		}
		if strings.Contains(p, "{") {
			items = append(items, p)
		} else {
			collections = append(collections, p)
		}
	}
	sort.Strings(collections)
	sort.Strings(items)

	// item -> nearest registered ancestor collection
	for _, item := range items {
		for parent := path.Dir(item); parent != "/" && parent != "."; parent = path.Dir(parent) {
			if strings.Contains(parent, "{") {
				continue
			}
			if _, ok := oapi.Paths[parent]; ok {
				links.add(item, parent, "collection")
				links.add(item, parent, "up")
				break
			}
		}
	}

	for _, coll := range collections {
		if coll == Entry {
			continue
		}
		links.add(coll, Entry, "up")
		links.add(Entry, coll, lastSegment(coll))
		if search != "" && coll != search {
			links.add(coll, search, "search")
		}
	}

	links.add(Entry, "/openapi.json", "describedby")
	links.add(Entry, "/openapi.json", "service-desc")
	links.add(Entry, "/docs", "service-doc")

	for p, pi := range oapi.Paths {
		if ref := responseSchemaRef(pi); ref != "" {
			links.add(p, "/openapi.json#/components/schemas/"+ref, "describedby")
		}
	}

	for p, pi := range oapi.Paths {
		headers, ok := links[p]
		if !ok {
			continue
		}
		for _, op := range operationsOf(pi) {
			if op != nil {
				injectResponseLinks(op, headers)
			}
		}
	}
	return links
}

// Transformer returns a Huma Transformer that emits the links of the
// current operation, a self link for item paths and any pagination or
// action links the response body carries.
func (l Links) Transformer() huma.Transformer {
	return func(ctx huma.Context, status string, v any) (any, error) {
		op := ctx.Operation()
		if op == nil {
			return v, nil
		}

		for _, link := range l[op.Path] {
			ctx.AppendHeader("Link", link)
		}

		if strings.Contains(op.Path, "{") {
			ctx.AppendHeader("Link", fmt.Sprintf(`<%s>; rel="self"`, ctx.URL().Path))
		}

		if p, ok := v.(Pager); ok {
			for _, link := range p.PaginationLinks(ctx.URL().Path) {
				ctx.AppendHeader("Link", link)
			}
		}

		if a, ok := v.(Actor); ok {
			for _, action := range a.Actions() {
				ctx.AppendHeader("Link", action.LinkHeader())
			}
		}

		return v, nil
	}
}

func (l Links) add(from, to, rel string) {
	val := fmt.Sprintf(`<%s>; rel="%s"`, to, rel)
	for _, existing := range l[from] {
		if existing == val {
			return
		}
	}
	l[from] = append(l[from], val)
}

func primaryTags(pi *huma.PathItem) []string {
	for _, op := range operationsOf(pi) {
		if op != nil && len(op.Tags) > 0 {
			return op.Tags
		}
	}
	return nil
}

func operationsOf(pi *huma.PathItem) []*huma.Operation {
	return []*huma.Operation{pi.Get, pi.Post, pi.Put, pi.Patch, pi.Delete}
}

func anyTag(tags, want []string) bool {
	for _, t := range tags {
		for _, w := range want {
			if t == w {
				return true
			}
		}
	}
	return false
}

func lastSegment(p string) string {
	parts := strings.Split(strings.TrimRight(p, "/"), "/")
	return parts[len(parts)-1]
}

// injectResponseLinks documents the links on the operation's 2xx response.
func injectResponseLinks(op *huma.Operation, headers []string) {
	if op.Responses == nil {
		return
	}
	var resp *huma.Response
	for code, r := range op.Responses {
		if strings.HasPrefix(code, "2") {
			resp = r
			break
		}
	}
	if resp == nil {
		return
	}
	if resp.Links == nil {
		resp.Links = map[string]*huma.Link{}
	}
	for _, h := range headers {
		rel, href := parseLinkHeader(h)
		if rel == "" {
			continue
		}
		resp.Links[rel] = &huma.Link{
			OperationRef: href,
			Description:  fmt.Sprintf("Related: %s", rel),
		}
	}
}

func responseSchemaRef(pi *huma.PathItem) string {
	if pi.Get == nil || pi.Get.Responses == nil {
		return ""
	}
	for code, resp := range pi.Get.Responses {
		if !strings.HasPrefix(code, "2") || resp.Content == nil {
			continue
		}
		for _, mt := range resp.Content {
			if mt.Schema != nil && mt.Schema.Ref != "" {
				parts := strings.Split(mt.Schema.Ref, "/")
				return parts[len(parts)-1]
			}
		}
	}
	return ""
}

func parseLinkHeader(h string) (rel, href string) {
	parts := strings.SplitN(h, ";", 2)
	if len(parts) < 2 {
		return "", ""
	}
	href = strings.Trim(strings.TrimSpace(parts[0]), "<>")
	relPart := strings.TrimSpace(parts[1])
	if strings.HasPrefix(relPart, `rel="`) {
		rel = strings.Trim(relPart[4:], `"`)
	}
	return rel, href
}
