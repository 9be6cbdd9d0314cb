package resource

import (
	"encoding/json"
	"strings"

	"github.com/nvellon/hal"
)

type Resource interface {
	LinkSelf() string
	Resource() *hal.Resource
	GetMap() hal.Entry
}

type ResourceList struct {
	Resources []Resource
	SelfLink  string
	NextLink  string
	PrevLink  string
}

func NewResourceList(list []Resource, selfLink, nextLink, prevLink string) *ResourceList {
	return &ResourceList{
		Resources: list,
		SelfLink:  selfLink,
		NextLink:  nextLink,
		PrevLink:  prevLink,
	}
}

func (l ResourceList) Resource() *hal.Resource {
	rl := hal.NewResource(struct{}{}, l.LinkSelf())

	rCollection := hal.ResourceCollection{}
	for _, apiResource := range l.Resources {
		rCollection = append(rCollection, apiResource.Resource())
	}
	rl.EmbedCollection("records", rCollection)

	if l.PrevLink != "" {
		rl.AddLink("prev", hal.NewLink(l.PrevLink))
	}
	if l.NextLink != "" {
		rl.AddLink("next", hal.NewLink(l.NextLink))
	}

	return rl
}

func (l ResourceList) LinkSelf() string {
	return l.SelfLink
}

func (l ResourceList) GetMap() hal.Entry {
	return hal.Entry{}
}

// toEntry turns the JSON object form of `v` into a HAL entry.
func toEntry(v interface{}) hal.Entry {
	entry := hal.Entry{}

	b, err := json.Marshal(v)
	if err != nil {
		log.Error("failed to encode resource", "error", err)
		return entry
	}
	if err = json.Unmarshal(b, &entry); err != nil {
		log.Error("failed to decode resource", "error", err)
	}

	return entry
}

func replace(pattern string, pairs ...string) string {
	return strings.NewReplacer(pairs...).Replace(pattern)
}
