package integrators

import "github.com/san-kum/gravsim/internal/body"

// stage holds one stage derivative of the equations of motion: the
// position derivatives (velocities) and velocity derivatives
// (accelerations) of every body.
type stage struct {
	px, py, pz []float64
	vx, vy, vz []float64
}

func (st *stage) resize(n int) {
	if cap(st.px) < n {
		st.px = make([]float64, n)
		st.py = make([]float64, n)
		st.pz = make([]float64, n)
		st.vx = make([]float64, n)
		st.vy = make([]float64, n)
		st.vz = make([]float64, n)
		return
	}
	st.px = st.px[:n]
	st.py = st.py[:n]
	st.pz = st.pz[:n]
	st.vx = st.vx[:n]
	st.vy = st.vy[:n]
	st.vz = st.vz[:n]
}

// record captures the derivative at the current state of s. The gravity
// kernel must have run on s first so the acceleration buffers are valid.
func (st *stage) record(s *body.System) {
	copy(st.px, s.Vx)
	copy(st.py, s.Vy)
	copy(st.pz, s.Vz)
	copy(st.vx, s.Ax)
	copy(st.vy, s.Ay)
	copy(st.vz, s.Az)
}

// snapshot preserves position and velocity so a trial step can be built
// from, or rolled back to, the pre-step state.
type snapshot struct {
	px, py, pz []float64
	vx, vy, vz []float64
}

func (sn *snapshot) resize(n int) {
	if cap(sn.px) < n {
		sn.px = make([]float64, n)
		sn.py = make([]float64, n)
		sn.pz = make([]float64, n)
		sn.vx = make([]float64, n)
		sn.vy = make([]float64, n)
		sn.vz = make([]float64, n)
		return
	}
	sn.px = sn.px[:n]
	sn.py = sn.py[:n]
	sn.pz = sn.pz[:n]
	sn.vx = sn.vx[:n]
	sn.vy = sn.vy[:n]
	sn.vz = sn.vz[:n]
}

func (sn *snapshot) save(s *body.System) {
	copy(sn.px, s.Px)
	copy(sn.py, s.Py)
	copy(sn.pz, s.Pz)
	copy(sn.vx, s.Vx)
	copy(sn.vy, s.Vy)
	copy(sn.vz, s.Vz)
}

func (sn *snapshot) restore(s *body.System) {
	copy(s.Px, sn.px)
	copy(s.Py, sn.py)
	copy(s.Pz, sn.pz)
	copy(s.Vx, sn.vx)
	copy(s.Vy, sn.vy)
	copy(s.Vz, sn.vz)
}
