package parallax

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// ShotId identifies a registered camera shot (an image pose in the loaded
// reconstruction). Ids are opaque; the registry mints them.
type ShotId string

type ShotPose struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
}

// ShotResolver turns a shot id into a world pose. Returning false means
// the shot no longer exists; the caller must treat that as "drop the
// request", never as an error.
type ShotResolver interface {
	ResolveShot(id ShotId) (ShotPose, bool)
}

// ShotRegistry is the in-memory resolver used by the host application.
// The data source replaces its contents whenever a reconstruction loads.
type ShotRegistry struct {
	shots map[ShotId]ShotPose
}

func NewShotRegistry() *ShotRegistry {
	return &ShotRegistry{shots: make(map[ShotId]ShotPose)}
}

func (r *ShotRegistry) Add(pose ShotPose) ShotId {
	id := ShotId(uuid.NewString())
	r.shots[id] = pose
	return id
}

func (r *ShotRegistry) Remove(id ShotId) {
	delete(r.shots, id)
}

func (r *ShotRegistry) Clear() {
	r.shots = make(map[ShotId]ShotPose)
}

func (r *ShotRegistry) Len() int {
	return len(r.shots)
}

func (r *ShotRegistry) ResolveShot(id ShotId) (ShotPose, bool) {
	pose, ok := r.shots[id]
	return pose, ok
}

// Similarity3 is a uniform scale/rotate/translate transform. The host may
// apply one to the whole reconstruction (aligning it to another dataset);
// shot poses are re-expressed under it before the camera flies to them.
type Similarity3 struct {
	Scale       float32
	Rotation    mgl32.Quat
	Translation mgl32.Vec3
}

func IdentitySimilarity3() Similarity3 {
	return Similarity3{Scale: 1, Rotation: mgl32.QuatIdent()}
}

func (s Similarity3) ApplyPoint(p mgl32.Vec3) mgl32.Vec3 {
	return s.Rotation.Rotate(p).Mul(s.Scale).Add(s.Translation)
}

func (s Similarity3) ApplyPose(pose ShotPose) ShotPose {
	return ShotPose{
		Position: s.ApplyPoint(pose.Position),
		Rotation: s.Rotation.Mul(pose.Rotation).Normalize(),
	}
}
