package transforms

import (
	"fmt"

	"github.com/Azure/logfill/ingest/transforms/dedupe"
	"github.com/Azure/logfill/ingest/transforms/filter"
	"github.com/Azure/logfill/ingest/types"
)

type TransformCreator func(config map[string]any) (types.Transformer, error)

const (
	TransformTypeFilter = "filter"
	TransformTypeDedupe = "dedupe"
)

var transformCreators = map[string]TransformCreator{
	TransformTypeFilter: filter.FromConfigMap,
	TransformTypeDedupe: dedupe.FromConfigMap,
}

func IsValidTransformType(transformType string) bool {
	_, ok := transformCreators[transformType]
	return ok
}

func NewTransform(transformType string, config map[string]any) (types.Transformer, error) {
	creator, ok := transformCreators[transformType]
	if !ok {
		return nil, fmt.Errorf("unknown transform type: %s", transformType)
	}

	return creator(config)
}
