package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	gjkMaxIterations = 64
	// gjkRelativeTolerance stops iteration once a new support point cannot shrink |v|² by more than this fraction
	gjkRelativeTolerance = 1e-10
	// gjkOverlapTolerance is the squared core distance treated as touching cores
	gjkOverlapTolerance = 1e-20
	// gjkFlatTolerance is the tetrahedron volume, relative to its longest edge cubed, below which it is treated as planar
	gjkFlatTolerance = 1e-9
)

// DistanceOutput describes the closest features of two shapes
// Normal points from B toward A; Distance is negative when the inflated surfaces overlap
type DistanceOutput struct {
	PointA     mgl64.Vec3
	PointB     mgl64.Vec3
	Normal     mgl64.Vec3
	Distance   float64
	Iterations int
	// CoreOverlap is set when the uninflated cores intersect; PointA, PointB and Normal are not meaningful then
	CoreOverlap bool
}

// simplexVertex stores a Minkowski difference point with the support points that produced it
type simplexVertex struct {
	a, b, w mgl64.Vec3
}

type simplex struct {
	v     [4]simplexVertex
	bary  [4]float64
	count int
}

// Distance computes the separation between shape a at poseA and shape b at poseB with GJK on the shape cores
// Radii of sphere and capsule colliders are applied after convergence
func Distance(a Shape, poseA Pose, b Shape, poseB Pose) DistanceOutput {
	return distance(worldProxy{shape: a, pose: poseA}, worldProxy{shape: b, pose: poseB})
}

func distance(pa, pb worldProxy) DistanceOutput {
	var out DistanceOutput
	var s simplex

	v := pa.center().Sub(pb.center())
	if v.LenSqr() < 1e-24 {
		v = mgl64.Vec3{1, 0, 0}
	}
	prevLenSq := math.Inf(1)

	for out.Iterations < gjkMaxIterations {
		out.Iterations++

		sa := pa.support(v.Mul(-1))
		sb := pb.support(v)
		w := sa.Sub(sb)

		if s.count > 0 {
			vv := v.LenSqr()
			if vv-v.Dot(w) <= gjkRelativeTolerance*vv {
				break
			}
			if s.contains(w) {
				break
			}
		}

		s.v[s.count] = simplexVertex{a: sa, b: sb, w: w}
		s.count++

		if s.solve() {
			out.CoreOverlap = true
			break
		}

		v = s.closest()
		vv := v.LenSqr()
		if vv < gjkOverlapTolerance {
			out.CoreOverlap = true
			break
		}
		// No measurable progress; current simplex is as good as it gets
		if vv >= prevLenSq {
			break
		}
		prevLenSq = vv
	}

	if out.CoreOverlap {
		out.Distance = -(pa.radius() + pb.radius())
		return out
	}

	pA, pB := s.witness()
	delta := pA.Sub(pB)
	coreDist := delta.Len()
	if coreDist < 1e-12 {
		out.CoreOverlap = true
		out.Distance = -(pa.radius() + pb.radius())
		return out
	}

	n := delta.Mul(1 / coreDist)
	out.Normal = n
	out.PointA = pA.Sub(n.Mul(pa.radius()))
	out.PointB = pB.Add(n.Mul(pb.radius()))
	out.Distance = coreDist - pa.radius() - pb.radius()
	return out
}

func (s *simplex) contains(w mgl64.Vec3) bool {
	for i := 0; i < s.count; i++ {
		if s.v[i].w.Sub(w).LenSqr() < 1e-24 {
			return true
		}
	}
	return false
}

// closest returns the point of the current simplex nearest the origin
func (s *simplex) closest() mgl64.Vec3 {
	var p mgl64.Vec3
	for i := 0; i < s.count; i++ {
		p = p.Add(s.v[i].w.Mul(s.bary[i]))
	}
	return p
}

// witness returns the closest points on each core
func (s *simplex) witness() (mgl64.Vec3, mgl64.Vec3) {
	var pa, pb mgl64.Vec3
	for i := 0; i < s.count; i++ {
		pa = pa.Add(s.v[i].a.Mul(s.bary[i]))
		pb = pb.Add(s.v[i].b.Mul(s.bary[i]))
	}
	return pa, pb
}

// solve computes barycentric weights of the closest point and drops vertices outside its Voronoi region
// Returns true when the origin is enclosed by a tetrahedron
func (s *simplex) solve() bool {
	switch s.count {
	case 1:
		s.bary[0] = 1
	case 2:
		wa, wb := closestOnSegment(s.v[0].w, s.v[1].w)
		s.reduce([]int{0, 1}, []float64{wa, wb})
	case 3:
		wa, wb, wc := closestOnTriangle(s.v[0].w, s.v[1].w, s.v[2].w)
		s.reduce([]int{0, 1, 2}, []float64{wa, wb, wc})
	case 4:
		return s.solveTetrahedron()
	}
	return false
}

// faces lists each tetrahedron face followed by its opposite vertex
var tetraFaces = [4][4]int{
	{0, 1, 2, 3},
	{0, 2, 3, 1},
	{0, 3, 1, 2},
	{1, 3, 2, 0},
}

func (s *simplex) solveTetrahedron() bool {
	// A planar tetrahedron cannot enclose the origin and its face orientation tests are noise;
	// search every face and keep the nearest
	flat := s.flat()

	best := math.Inf(1)
	var bestFace [3]int
	var bestWeights [3]float64
	outside := false

	for _, f := range tetraFaces {
		a, b, c, d := s.v[f[0]].w, s.v[f[1]].w, s.v[f[2]].w, s.v[f[3]].w
		if !flat && !originOutsideFace(a, b, c, d) {
			continue
		}
		outside = true

		wa, wb, wc := closestOnTriangle(a, b, c)
		p := a.Mul(wa).Add(b.Mul(wb)).Add(c.Mul(wc))
		if distSq := p.LenSqr(); distSq < best {
			best = distSq
			bestFace = [3]int{f[0], f[1], f[2]}
			bestWeights = [3]float64{wa, wb, wc}
		}
	}

	if !outside {
		return true
	}

	s.reduce(bestFace[:], bestWeights[:])
	return false
}

// flat reports whether the four simplex points are coplanar within gjkFlatTolerance
func (s *simplex) flat() bool {
	a := s.v[0].w
	ab, ac, ad := s.v[1].w.Sub(a), s.v[2].w.Sub(a), s.v[3].w.Sub(a)
	edge := max(ab.LenSqr(), ac.LenSqr(), ad.LenSqr(),
		ac.Sub(ab).LenSqr(), ad.Sub(ab).LenSqr(), ad.Sub(ac).LenSqr())
	if edge == 0 {
		return true
	}
	vol := math.Abs(ab.Dot(ac.Cross(ad)))
	return vol <= gjkFlatTolerance*edge*math.Sqrt(edge)
}

// reduce keeps the vertices with positive weight, in order
func (s *simplex) reduce(idx []int, weights []float64) {
	var next [4]simplexVertex
	var bary [4]float64
	n := 0
	for i, vi := range idx {
		if weights[i] > 0 {
			next[n] = s.v[vi]
			bary[n] = weights[i]
			n++
		}
	}
	if n == 0 {
		// Degenerate weights; keep the first vertex
		next[0] = s.v[idx[0]]
		bary[0] = 1
		n = 1
	}
	s.v = next
	s.bary = bary
	s.count = n
}

// originOutsideFace reports whether the origin and d lie on opposite sides of plane abc
// Callers rule out planar tetrahedra first, so d is never on the plane
func originOutsideFace(a, b, c, d mgl64.Vec3) bool {
	n := b.Sub(a).Cross(c.Sub(a))
	signP := a.Mul(-1).Dot(n)
	signD := d.Sub(a).Dot(n)
	return signP*signD <= 0
}

// closestOnSegment returns barycentric weights of the point on ab nearest the origin
func closestOnSegment(a, b mgl64.Vec3) (float64, float64) {
	ab := b.Sub(a)
	t := -a.Dot(ab)
	if t <= 0 {
		return 1, 0
	}
	denom := ab.LenSqr()
	if t >= denom {
		return 0, 1
	}
	t /= denom
	return 1 - t, t
}

// closestOnTriangle returns barycentric weights of the point on triangle abc nearest the origin
// Region tests follow Ericson, Real-Time Collision Detection 5.1.5
func closestOnTriangle(a, b, c mgl64.Vec3) (float64, float64, float64) {
	ab := b.Sub(a)
	ac := c.Sub(a)
	ap := a.Mul(-1)

	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return 1, 0, 0
	}

	bp := b.Mul(-1)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return 0, 1, 0
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		return 1 - v, v, 0
	}

	cp := c.Mul(-1)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return 0, 0, 1
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		return 1 - w, 0, w
	}

	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return 0, 1 - w, w
	}

	denom := va + vb + vc
	if denom == 0 {
		// Collinear triangle; fall back to edge ab
		wa, wb := closestOnSegment(a, b)
		return wa, wb, 0
	}
	inv := 1 / denom
	v := vb * inv
	w := vc * inv
	return 1 - v - w, v, w
}
