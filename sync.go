package softbody

import "time"

// SyncSystem copies transforms across mirror pairs in one direction.
//
// Register the SyncVisualToPhysics instance before the solver and the
// SyncPhysicsToVisual instance after it. Pairs whose direction does not
// allow the copy (anchors, for physics to visual) are skipped.
type SyncSystem struct {
	Table     *MirrorTable
	Direction SyncDirection
}

// Run implements Runnable.
func (s *SyncSystem) Run(time.Duration) {
	from, to := s.Table.visual, s.Table.physics
	if s.Direction == SyncPhysicsToVisual {
		from, to = to, from
	}
	for _, pair := range s.Table.Pairs() {
		if !pair.Direction.Allows(s.Direction) {
			continue
		}
		src, dst := pair.Visual, pair.Physics
		if s.Direction == SyncPhysicsToVisual {
			src, dst = dst, src
		}
		pos, ok := from.Position(src)
		if !ok || !to.Valid(dst) {
			continue
		}
		to.SetPosition(dst, pos)
	}
}
