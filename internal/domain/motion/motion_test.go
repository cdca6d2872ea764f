package motion_test

import (
	"testing"

	"cogentcore.org/core/math32"
	"github.com/okian/evergreen/internal/domain/model"
	"github.com/okian/evergreen/internal/domain/motion"
	"github.com/smartystreets/goconvey/convey"
)

func TestApproach(t *testing.T) {
	convey.Convey("Given the approach laws", t, func() {
		convey.Convey("When dt is zero", func() {
			convey.Convey("Then the value should not move", func() {
				convey.So(motion.Approach(2, 10, 3, 0), convey.ShouldEqual, 2)
				convey.So(motion.ApproachExp(2, 10, 3, 0), convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When dt is very large", func() {
			convey.Convey("Then the value should reach the target", func() {
				convey.So(motion.Approach(2, 10, 3, 1e6), convey.ShouldEqual, 10)
				convey.So(motion.ApproachExp(2, 10, 3, 1e6), convey.ShouldAlmostEqual, 10, 1e-4)
			})
		})

		convey.Convey("When rate is 3 and dt is one second", func() {
			convey.Convey("Then the exponential law should cover about 95%", func() {
				convey.So(motion.ApproachExp(0, 1, 3, 1), convey.ShouldAlmostEqual, 0.9502, 1e-3)
			})

			convey.Convey("Then the clamped law should land on the target without overshoot", func() {
				convey.So(motion.Approach(0, 1, 3, 1), convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When stepping at 60 frames per second", func() {
			v := float32(0)
			prev := v
			monotonic := true
			for range 120 {
				v = motion.Approach(v, 1, 3, 1.0/60)
				if v < prev || v > 1 {
					monotonic = false
				}
				prev = v
			}

			convey.Convey("Then the clamped law should converge monotonically", func() {
				convey.So(monotonic, convey.ShouldBeTrue)
				convey.So(v, convey.ShouldAlmostEqual, 1, 0.01)
			})
		})

		convey.Convey("Then policies should parse by name", func() {
			convey.So(motion.ParseSmoothing("exponential"), convey.ShouldEqual, motion.SmoothExponential)
			convey.So(motion.ParseSmoothing("clamped"), convey.ShouldEqual, motion.SmoothClamped)
			convey.So(motion.ParseSmoothing(""), convey.ShouldEqual, motion.SmoothClamped)
			convey.So(motion.SmoothClamped.Fraction(-1, 1), convey.ShouldEqual, 0)
		})
	})
}

func element(kind model.Kind) model.Element {
	e := model.Element{
		Kind:              kind,
		AssembledPosition: math32.Vec3(1, 0, 0),
		UnleashedPosition: math32.Vec3(11, 0, 0),
		UnleashedRotation: math32.Vec3(0, 2, 0),
		AssembledRotation: math32.NewQuat(0, 0, 0, 1),
	}
	e.Reset()
	return e
}

func TestEngineModeFlip(t *testing.T) {
	convey.Convey("Given an element resting on the tree", t, func() {
		engine := motion.NewEngine(motion.WithSmoothing(motion.SmoothExponential), motion.WithRates(3, 4, 1.2))
		elements := []model.Element{element(model.KindOrnament)}

		convey.Convey("When the mode flips to unleashed for one second", func() {
			for range 60 {
				engine.Step(1.0/60, model.ModeUnleashed, math32.Vec3(0, 0, 30), elements)
			}

			convey.Convey("Then it should have covered about 95% of the way", func() {
				moved := (elements[0].LivePosition.X - 1) / 10
				convey.So(moved, convey.ShouldAlmostEqual, 0.9502, 2e-3)
			})
		})

		convey.Convey("When dt is zero", func() {
			before := elements[0]
			engine.Step(0, model.ModeUnleashed, math32.Vec3(0, 0, 30), elements)

			convey.Convey("Then nothing should move", func() {
				convey.So(elements[0], convey.ShouldResemble, before)
			})
		})
	})
}

func TestEngineRotationRules(t *testing.T) {
	convey.Convey("Given an engine with the clamped law", t, func() {
		engine := motion.NewEngine(motion.WithRates(3, 4, 1.2))
		camera := math32.Vec3(0, 5, 40)

		convey.Convey("When an ornament is unleashed for half a second", func() {
			elements := []model.Element{element(model.KindOrnament)}
			engine.Step(0.5, model.ModeUnleashed, camera, elements)

			convey.Convey("Then it should have tumbled 0.6 rad about its hint axis", func() {
				want := math32.NewQuatAxisAngle(math32.Vec3(0, 1, 0), 0.6)
				got := elements[0].LiveRotation
				convey.So(got.X, convey.ShouldAlmostEqual, want.X, 1e-4)
				convey.So(got.Y, convey.ShouldAlmostEqual, want.Y, 1e-4)
				convey.So(got.Z, convey.ShouldAlmostEqual, want.Z, 1e-4)
				convey.So(got.W, convey.ShouldAlmostEqual, want.W, 1e-4)
			})

			convey.Convey("And when it keeps tumbling the angle should keep growing", func() {
				engine.Step(0.5, model.ModeUnleashed, camera, elements)
				want := math32.NewQuatAxisAngle(math32.Vec3(0, 1, 0), 1.2)
				convey.So(elements[0].LiveRotation.W, convey.ShouldAlmostEqual, want.W, 1e-4)
			})
		})

		convey.Convey("When a tumbled light returns to the tree", func() {
			elements := []model.Element{element(model.KindLight)}
			elements[0].LiveRotation = math32.NewQuatAxisAngle(math32.Vec3(1, 0, 0), 2)
			for range 180 {
				engine.Step(1.0/60, model.ModeAssembled, camera, elements)
			}

			convey.Convey("Then its orientation should settle at identity", func() {
				convey.So(math32.Abs(elements[0].LiveRotation.W), convey.ShouldAlmostEqual, 1, 1e-3)
			})
		})

		convey.Convey("When a photo is unleashed", func() {
			elements := []model.Element{element(model.KindPhoto)}
			elements[0].UnleashedPosition = elements[0].AssembledPosition
			for range 240 {
				engine.Step(1.0/60, model.ModeUnleashed, camera, elements)
			}

			convey.Convey("Then it should face the camera", func() {
				face := math32.Vec3(0, 0, 1).MulQuat(elements[0].LiveRotation)
				want := camera.Sub(elements[0].LivePosition).Normal()
				convey.So(face.Dot(want), convey.ShouldAlmostEqual, 1, 1e-3)
			})
		})

		convey.Convey("When a photo returns to the tree", func() {
			outward := math32.NewQuatAxisAngle(math32.Vec3(0, 1, 0), math32.Pi/2)
			elements := []model.Element{element(model.KindPhoto)}
			elements[0].AssembledRotation = outward
			for range 240 {
				engine.Step(1.0/60, model.ModeAssembled, camera, elements)
			}

			convey.Convey("Then it should face outward again", func() {
				convey.So(elements[0].LiveRotation.Dot(outward), convey.ShouldAlmostEqual, 1, 1e-3)
			})
		})
	})
}

func TestFacingQuat(t *testing.T) {
	convey.Convey("Given a viewpoint above and to the side", t, func() {
		from := math32.Vec3(2, 1, -3)
		to := math32.Vec3(-5, 8, 10)

		convey.Convey("Then +Z should turn toward the viewpoint", func() {
			face := math32.Vec3(0, 0, 1).MulQuat(motion.FacingQuat(from, to))
			convey.So(face.Dot(to.Sub(from).Normal()), convey.ShouldAlmostEqual, 1, 1e-4)
		})
	})
}
