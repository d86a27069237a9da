package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// castTargetGap is the separation conservative advancement aims for before extrapolating contact
	// Kept well under any controller skin width so reported contacts are exact to within castTolerance
	castTargetGap = 1e-4
	castTolerance = 2.5e-5
	castMaxSteps  = 32
	// castMinClosing is the approach rate below which the shapes are treated as not converging
	castMinClosing  = 1e-9
	castBisectSteps = 24
)

// pairDistance is swapped in tests
var pairDistance = distance

// ShapeHit is the nearest blocking contact of a shape cast
type ShapeHit struct {
	Entity EntityID
	// Point is the world-space contact point on the obstacle surface
	Point mgl64.Vec3
	// Normal is the unit surface normal pointing out of the obstacle
	Normal mgl64.Vec3
	// TimeOfImpact is the distance travelled along the cast direction at first contact
	TimeOfImpact float64
	// Penetrating is set when the inflated surfaces already overlapped at the cast origin
	Penetrating bool
}

// CastPair sweeps shape from origin along unit direction dir up to maxDist against a single static shape
// Conservative advancement: the separation of two convex sets under translation is convex in the distance travelled,
// so stepping by separation/closing-rate never skips a contact and a non-positive closing rate means no future contact
// A shape whose core already overlaps the target at origin does not hit it, so a body embedded in geometry can leave
func CastPair(shape Shape, origin Pose, dir mgl64.Vec3, maxDist float64, target Shape, targetPose Pose) (ShapeHit, bool) {
	obstacle := worldProxy{shape: target, pose: targetPose}
	at := func(t float64) DistanceOutput {
		return pairDistance(worldProxy{shape: shape, pose: origin.Translated(dir.Mul(t))}, obstacle)
	}
	t := 0.0

	var last DistanceOutput
	var lastT float64
	for step := 0; step < castMaxSteps; step++ {
		out := at(t)

		if out.CoreOverlap {
			if step == 0 {
				return ShapeHit{}, false
			}
			// Stepped into the core; bisect back toward the last separated distance
			lo, hi := lastT, t
			for range castBisectSteps {
				mid := (lo + hi) / 2
				if out := at(mid); out.CoreOverlap {
					hi = mid
				} else {
					lo, last = mid, out
				}
			}
			return contactFrom(last, lo, dir), true
		}
		last, lastT = out, t

		closing := -dir.Dot(out.Normal)

		if out.Distance <= castTargetGap+castTolerance {
			if closing <= castMinClosing {
				// Touching or resting but sliding away or parallel
				return ShapeHit{}, false
			}
			toi := t
			if out.Distance > 0 {
				toi += out.Distance / closing
			}
			if toi > maxDist {
				return ShapeHit{}, false
			}
			hit := contactFrom(out, toi, dir)
			hit.Penetrating = out.Distance < 0 && step == 0
			return hit, true
		}

		if closing <= castMinClosing {
			return ShapeHit{}, false
		}

		t += (out.Distance - castTargetGap) / closing
		if t > maxDist {
			return ShapeHit{}, false
		}
	}

	// Step budget exhausted while still converging; the conservative position is a safe contact
	return contactFrom(last, math.Min(t, maxDist), dir), true
}

func contactFrom(out DistanceOutput, toi float64, dir mgl64.Vec3) ShapeHit {
	normal := out.Normal
	if normal.LenSqr() == 0 {
		normal = dir.Mul(-1)
	}
	return ShapeHit{
		Point:        out.PointB,
		Normal:       normal,
		TimeOfImpact: toi,
	}
}
