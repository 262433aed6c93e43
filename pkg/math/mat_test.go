package math

import (
	"math"
	"testing"
)

func mat43Equal(a, b Mat43, tol float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}

func TestMat33Identity(t *testing.T) {
	m := Mat33Identity()
	if !m.IsIdentity() {
		t.Error("Mat33Identity().IsIdentity() = false")
	}
	if m.Determinant() != 1 {
		t.Errorf("Determinant() = %v, want 1", m.Determinant())
	}
	v := Vec3{1, 2, 3}
	if got := m.Transform(v); got != v {
		t.Errorf("Transform() = %v, want %v", got, v)
	}
}

func TestMat33Inverse(t *testing.T) {
	m := Mat33{
		2, 0, 1,
		1, 3, 0,
		0, 1, 4,
	}
	inv, ok := m.Inverse()
	if !ok {
		t.Fatal("Inverse() reported singular matrix")
	}
	got := m.Mul(inv)
	want := Mat33Identity()
	for i := range got {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Fatalf("m * inverse = %v, want identity", got)
		}
	}

	if _, ok := (Mat33{}).Inverse(); ok {
		t.Error("Inverse() of zero matrix should fail")
	}
}

func TestMat33FromAxisRotation(t *testing.T) {
	m := Mat33FromAxisRotation(ZAxis, math.Pi/2)
	if got := m.Transform(XAxis); !got.Equal(YAxis, 1e-12) {
		t.Errorf("rotate X by 90 around Z = %v, want %v", got, YAxis)
	}
	if math.Abs(m.Determinant()-1) > 1e-12 {
		t.Errorf("rotation determinant = %v, want 1", m.Determinant())
	}
}

func TestMat43TransformPoint(t *testing.T) {
	m := Mat43Scale(Vec3{2, 2, 2}).Mul(Mat43Translation(Vec3{10, 0, 0}))
	got := m.TransformPoint(Vec3{1, 2, 3})
	want := Vec3{12, 4, 6}
	if got != want {
		t.Errorf("TransformPoint() = %v, want %v", got, want)
	}
	if got := m.TransformNormal(Vec3{1, 0, 0}); got != (Vec3{2, 0, 0}) {
		t.Errorf("TransformNormal() should ignore translation, got %v", got)
	}
}

func TestMat43Inverse(t *testing.T) {
	m := Mat43FromAxisRotation(Vec3{1, 1, 0}.Normalize(), 0.8).
		Mul(Mat43Scale(Vec3{1, 2, 3})).
		Translate(Vec3{4, -5, 6})

	inv, ok := m.Inverse()
	if !ok {
		t.Fatal("Inverse() reported singular matrix")
	}
	if got := m.Mul(inv); !mat43Equal(got, Mat43Identity(), 1e-9) {
		t.Errorf("m * inverse = %v, want identity", got)
	}

	p := Vec3{7, 8, 9}
	if got := inv.TransformPoint(m.TransformPoint(p)); !got.Equal(p, 1e-9) {
		t.Errorf("inverse round trip = %v, want %v", got, p)
	}
}

func TestMat43InverseOrthonormal(t *testing.T) {
	m := Mat43FromAxisRotation(YAxis, 1.1).Translate(Vec3{1, 2, 3})
	inv, _ := m.Inverse()
	if got := m.InverseOrthonormal(); !mat43Equal(got, inv, 1e-9) {
		t.Errorf("InverseOrthonormal() = %v, want %v", got, inv)
	}
}

func TestMat43OrthoNormalize(t *testing.T) {
	m := Mat43FromAxes(
		Vec3{2, 0.1, 0},
		Vec3{0.05, 3, 0.1},
		Vec3{0, 0, 0.5},
		Vec3{1, 2, 3},
	).OrthoNormalize()

	axes := []Vec3{m.Right(), m.Up(), m.At()}
	for i, a := range axes {
		if math.Abs(a.Length()-1) > 1e-9 {
			t.Errorf("axis %d length = %v, want 1", i, a.Length())
		}
		for j := i + 1; j < len(axes); j++ {
			if d := a.Dot(axes[j]); math.Abs(d) > 1e-9 {
				t.Errorf("axes %d and %d not perpendicular: dot %v", i, j, d)
			}
		}
	}
	if m.Pos() != (Vec3{1, 2, 3}) {
		t.Errorf("OrthoNormalize() changed translation to %v", m.Pos())
	}
}

func TestMat44Mul(t *testing.T) {
	a := Mat43Translation(Vec3{1, 2, 3}).Mat44()
	b := Mat43Scale(Vec3{2, 2, 2}).Mat44()

	got := a.Mul(b).TransformPoint(Vec3{1, 1, 1})
	want := Vec4{4, 6, 8, 1}
	if got != want {
		t.Errorf("TransformPoint() = %v, want %v", got, want)
	}
	if got := Mat43FromMat44(a.Mul(b)); got != Mat43Translation(Vec3{1, 2, 3}).Mul(Mat43Scale(Vec3{2, 2, 2})) {
		t.Errorf("Mat43FromMat44() = %v", got)
	}
	if !Mat44Identity().Transpose().IsIdentity() {
		t.Error("identity transpose should be identity")
	}
}

func TestDecompose(t *testing.T) {
	rot := QuatFromAxisRotation(Vec3{0, 1, 1}.Normalize(), 0.9)

	tests := []struct {
		name      string
		m         Mat43
		wantRot   Quat
		wantPos   Vec3
		wantScale Vec3
		mirrored  bool
	}{
		{
			name:      "identity",
			m:         Mat43Identity(),
			wantRot:   QuatIdentity(),
			wantScale: Vec3{1, 1, 1},
		},
		{
			name:      "rigid",
			m:         rot.ToMat43().SetPos(Vec3{5, 6, 7}),
			wantRot:   rot,
			wantPos:   Vec3{5, 6, 7},
			wantScale: Vec3{1, 1, 1},
		},
		{
			name:      "non uniform scale",
			m:         Mat43Scale(Vec3{2, 3, 4}).Mul(rot.ToMat43()).SetPos(Vec3{1, 0, 0}),
			wantRot:   rot,
			wantPos:   Vec3{1, 0, 0},
			wantScale: Vec3{2, 3, 4},
		},
		{
			name:      "mirrored",
			m:         Mat43Scale(Vec3{-1, 1, 1}),
			wantRot:   QuatIdentity(),
			wantScale: Vec3{-1, 1, 1},
			mirrored:  true,
		},
		{
			name:      "collapsed axis",
			m:         Mat43Scale(Vec3{0, 1, 1}),
			wantRot:   QuatIdentity(),
			wantScale: Vec3{0, 1, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decompose(tt.m)
			if !d.Rot.IsSimilar(tt.wantRot) {
				t.Errorf("Rot = %v, want %v", d.Rot, tt.wantRot)
			}
			if !d.Pos.Equal(tt.wantPos, 1e-9) {
				t.Errorf("Pos = %v, want %v", d.Pos, tt.wantPos)
			}
			if !d.Scale.Equal(tt.wantScale, 1e-9) {
				t.Errorf("Scale = %v, want %v", d.Scale, tt.wantScale)
			}
			if d.Mirrored != tt.mirrored {
				t.Errorf("Mirrored = %v, want %v", d.Mirrored, tt.mirrored)
			}
		})
	}
}
