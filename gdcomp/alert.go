// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gdcomp

import "github.com/cpmech/griddyn/gdmode"

// AlertCode identifies why a component posted a change alert. Codes fall in
// [MinChangeAlert, MaxChangeAlert) per spec.md §9's re-architecture
// guidance, replacing per-component upward pointer walks with a message
// posted to a queue the simulation drains at end of step.
type AlertCode int

const (
	MinChangeAlert AlertCode = 500
	MaxChangeAlert AlertCode = 900
)

const (
	AlertParameterChanged AlertCode = MinChangeAlert + iota
	AlertObjectAdded
	AlertObjectRemoved
	AlertStateCountChanged
	AlertRootCountChanged
	AlertJacobianChanged
	AlertInvalidState
)

// Alert is one posted change: which component, what kind of change, and the
// ChangeCode it implies for the driver's reinitialization decision.
type Alert struct {
	Source Component
	Code   AlertCode
	Change gdmode.ChangeCode
}
