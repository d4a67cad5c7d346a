package physics

import (
	"sort"

	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/milk9111/enemyai/ai"
	"github.com/milk9111/enemyai/common"
)

const (
	categoryWall   uint = 1 << 0
	categoryEntity uint = 1 << 1
)

// Space mirrors the ground plane into a chipmunk space. World X/Z map to
// chipmunk X/Y. Walls are static boxes and entities are kinematic circles
// whose filter group is their ref, so queries can skip a single entity.
type Space struct {
	space    *cp.Space
	log      *zap.Logger
	entities map[ai.EntityRef]*entityBody
	walls    []*cp.Shape
}

type entityBody struct {
	ref    ai.EntityRef
	tag    string
	radius float64
	height float64
	body   *cp.Body
	shape  *cp.Shape
}

func NewSpace(log *zap.Logger) *Space {
	if log == nil {
		log = zap.NewNop()
	}
	space := cp.NewSpace()
	space.Iterations = 10
	space.SetGravity(cp.Vector{})
	return &Space{
		space:    space,
		log:      log,
		entities: make(map[ai.EntityRef]*entityBody),
	}
}

func toCP(p common.Vec3) cp.Vector {
	return cp.Vector{X: p.X, Y: p.Z}
}

// AddWall adds a static box spanning the X/Z rectangle between a and b.
func (s *Space) AddWall(a, b common.Vec3) {
	bb := cp.BB{
		L: min(a.X, b.X),
		B: min(a.Z, b.Z),
		R: max(a.X, b.X),
		T: max(a.Z, b.Z),
	}
	shape := s.space.AddShape(cp.NewBox2(s.space.StaticBody, bb, 0))
	shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, categoryWall, cp.ALL_CATEGORIES))
	s.walls = append(s.walls, shape)
}

func (s *Space) WallCount() int {
	return len(s.walls)
}

// AddEntity registers a circle for ref. Adding an existing ref moves it instead.
func (s *Space) AddEntity(ref ai.EntityRef, pos common.Vec3, radius float64, tag string) {
	if !ref.Valid() {
		return
	}
	if eb, ok := s.entities[ref]; ok {
		eb.tag = tag
		s.Move(ref, pos)
		return
	}
	if radius <= 0 {
		radius = 0.5
	}
	body := s.space.AddBody(cp.NewKinematicBody())
	body.SetPosition(toCP(pos))
	body.UserData = ref

	shape := s.space.AddShape(cp.NewCircle(body, radius, cp.Vector{}))
	shape.UserData = ref
	shape.SetFilter(cp.NewShapeFilter(uint(ref), categoryEntity, cp.ALL_CATEGORIES))

	s.entities[ref] = &entityBody{
		ref:    ref,
		tag:    tag,
		radius: radius,
		height: pos.Y,
		body:   body,
		shape:  shape,
	}
	s.log.Debug("physics: entity added", zap.Stringer("ref", ref), zap.String("tag", tag), zap.Float64("radius", radius))
}

// Move teleports ref. The query index catches up on the next Step.
func (s *Space) Move(ref ai.EntityRef, pos common.Vec3) {
	eb, ok := s.entities[ref]
	if !ok {
		return
	}
	eb.height = pos.Y
	eb.body.SetPosition(toCP(pos))
}

func (s *Space) Remove(ref ai.EntityRef) {
	eb, ok := s.entities[ref]
	if !ok {
		return
	}
	s.space.RemoveShape(eb.shape)
	s.space.RemoveBody(eb.body)
	delete(s.entities, ref)
}

func (s *Space) Has(ref ai.EntityRef) bool {
	_, ok := s.entities[ref]
	return ok
}

func (s *Space) Position(ref ai.EntityRef) (common.Vec3, bool) {
	eb, ok := s.entities[ref]
	if !ok {
		return common.Vec3{}, false
	}
	p := eb.body.Position()
	return common.V3(p.X, eb.height, p.Y), true
}

// Step advances the space and refreshes the query index.
func (s *Space) Step(dt float64) {
	if dt <= 0 {
		return
	}
	s.space.Step(dt)
}

// Raycast returns the first wall or entity crossed by the ray. The test runs
// on the ground plane; the hit point is placed back on the 3D ray.
func (s *Space) Raycast(origin, dir common.Vec3, maxDistance float64, ignore ai.EntityRef) (ai.RayHit, bool) {
	if maxDistance <= 0 {
		return ai.RayHit{}, false
	}
	d := dir.Normalize()
	if d.IsZero() {
		return ai.RayHit{}, false
	}
	end := origin.Add(d.Scale(maxDistance))
	start2, end2 := toCP(origin), toCP(end)
	if start2.Sub(end2).Length() < 1e-9 {
		return ai.RayHit{}, false
	}

	filter := cp.NewShapeFilter(uint(ignore), cp.ALL_CATEGORIES, cp.ALL_CATEGORIES)
	info := s.space.SegmentQueryFirst(start2, end2, 0, filter)
	if info.Shape == nil {
		return ai.RayHit{}, false
	}

	hit := ai.RayHit{
		Point:    origin.Add(end.Sub(origin).Scale(info.Alpha)),
		Distance: info.Alpha * maxDistance,
	}
	if ref, ok := info.Shape.UserData.(ai.EntityRef); ok {
		hit.Entity = ref
	}
	return hit, true
}

// Overlap returns entities tagged tag whose circle touches the query circle,
// ordered by ref. An empty tag matches everything.
func (s *Space) Overlap(center common.Vec3, radius float64, tag string) []ai.EntityRef {
	if radius < 0 {
		return nil
	}
	c := toCP(center)
	var out []ai.EntityRef
	seen := make(map[ai.EntityRef]bool)
	filter := cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, categoryEntity)
	s.space.BBQuery(cp.NewBBForCircle(c, radius), filter, func(shape *cp.Shape, _ interface{}) {
		ref, ok := shape.UserData.(ai.EntityRef)
		if !ok || seen[ref] {
			return
		}
		eb, ok := s.entities[ref]
		if !ok || (tag != "" && eb.tag != tag) {
			return
		}
		if eb.body.Position().Sub(c).Length() > radius+eb.radius {
			return
		}
		seen[ref] = true
		out = append(out, ref)
	}, nil)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Each visits every registered entity circle in ref order.
func (s *Space) Each(fn func(ref ai.EntityRef, pos common.Vec3, radius float64, tag string)) {
	refs := make([]ai.EntityRef, 0, len(s.entities))
	for ref := range s.entities {
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i] < refs[j] })
	for _, ref := range refs {
		eb := s.entities[ref]
		p := eb.body.Position()
		fn(ref, common.V3(p.X, eb.height, p.Y), eb.radius, eb.tag)
	}
}

// Walls returns the X/Z rectangles of every wall as min/max pairs.
func (s *Space) Walls() [][2]common.Vec3 {
	out := make([][2]common.Vec3, 0, len(s.walls))
	for _, w := range s.walls {
		bb := w.BB()
		out = append(out, [2]common.Vec3{common.V3(bb.L, 0, bb.B), common.V3(bb.R, 0, bb.T)})
	}
	return out
}
