package xgen

import (
	"fmt"

	"xgenseed/internal/primcache"
	"xgenseed/internal/xgerr"
)

// PrimitiveKind is the closed set of primitive caches the generator flushes.
type PrimitiveKind int

const (
	KindSpline PrimitiveKind = iota
	KindCard
	KindSphere
	KindArchive
)

func (k PrimitiveKind) String() string {
	switch k {
	case KindSpline:
		return "spline"
	case KindCard:
		return "card"
	case KindSphere:
		return "sphere"
	case KindArchive:
		return "archive"
	default:
		return fmt.Sprintf("PrimitiveKind(%d)", int(k))
	}
}

// KindOf classifies a cache. The spline flag wins over the type name.
func KindOf(c *primcache.Cache) (PrimitiveKind, error) {
	if c.IsSpline {
		return KindSpline, nil
	}
	switch c.PrimitiveType {
	case primcache.TypeCard:
		return KindCard, nil
	case primcache.TypeSphere:
		return KindSphere, nil
	case primcache.TypeArchive:
		return KindArchive, nil
	}
	return 0, fmt.Errorf("%w %q", xgerr.ErrUnknownPrimitive, c.PrimitiveType)
}
