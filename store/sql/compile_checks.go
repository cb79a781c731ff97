package sqlstore

import "github.com/myp007/mz-hupu-h5-sdk/core"

var (
	_ core.StateStore = (*SessionStateStore)(nil)
	_ core.StateStore = (*CachedSessionStateStore)(nil)
)
