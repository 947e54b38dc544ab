package entities

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"painting-demo/internal/domain/valueobjects"
)

type ViewID string

// View - 解決済みの位置を描画した地図ビュー
type View struct {
	id         ViewID
	location   *valueobjects.Location
	parameters *valueobjects.ViewParameters
	resolvedAt time.Time
}

func NewView(location *valueobjects.Location, parameters *valueobjects.ViewParameters) (*View, error) {
	if location == nil {
		return nil, fmt.Errorf("location is required")
	}

	if parameters == nil {
		parameters = valueobjects.DefaultViewParameters()
	}

	return RestoreView(ViewID(uuid.NewString()), location, parameters, time.Now()), nil
}

// RestoreView - 保存済みの値からビューを復元
func RestoreView(
	id ViewID,
	location *valueobjects.Location,
	parameters *valueobjects.ViewParameters,
	resolvedAt time.Time,
) *View {
	return &View{
		id:         id,
		location:   location,
		parameters: parameters,
		resolvedAt: resolvedAt,
	}
}

func (v *View) ID() ViewID {
	return v.id
}

func (v *View) Location() *valueobjects.Location {
	return v.location
}

func (v *View) Parameters() *valueobjects.ViewParameters {
	return v.parameters
}

func (v *View) ResolvedAt() time.Time {
	return v.resolvedAt
}
