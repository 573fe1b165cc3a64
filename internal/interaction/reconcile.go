package interaction

// Reconcile merges server truth with locally pending toggles and returns
// the state to display. Pure function: server wins for every id without
// a pending op; a pending op overrides the liked flag and adjusts the
// server count by at most one in its direction.
func Reconcile(server map[string]State, pending []Op) map[string]State {
	out := make(map[string]State, len(server))
	for id, s := range server {
		out[id] = s
	}

	for _, op := range pending {
		s := out[op.TargetID]
		if s.Liked != op.Liked {
			if op.Liked {
				s.Count++
			} else if s.Count > 0 {
				s.Count--
			}
		}
		s.Liked = op.Liked
		out[op.TargetID] = s
	}
	return out
}
