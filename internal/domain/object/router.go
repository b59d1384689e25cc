package object

import (
	"context"
)

// Router decides which node owns or should own a (bucket, key).
//
// Placement is sticky: once an object has a recorded node the router always
// returns it. A key with no record routes to the single statically designated
// ingest node; there is no capacity-aware or hashed placement and no
// health-aware exclusion of a down node.
type Router struct {
	objects    Repository
	ingestNode string
}

func NewRouter(objects Repository, ingestNode string) *Router {
	return &Router{objects: objects, ingestNode: ingestNode}
}

// Route returns the target node for the key and whether a placement record
// already exists.
func (r *Router) Route(ctx context.Context, bucket, key string) (node string, existing bool, err error) {
	node, err = r.objects.FindNode(ctx, bucket, key)
	if err != nil {
		return "", false, err
	}
	if node != "" {
		return node, true, nil
	}
	return r.ingestNode, false, nil
}
