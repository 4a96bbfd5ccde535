package vec

import (
	"testing"
)

var (
	NULL = Vec3{}
)

func TestBasics(t *testing.T) {
	v := Vec3{1, 2, 3}
	if v[0] != 1 || v[1] != 2 || v[2] != 3 {
		t.Errorf("Vector construction is not obvious")
	}
}

func TestLength(t *testing.T) {
	if NULL.Length() != 0 {
		t.Errorf("Null vector has not 0 length")
	}
	v := Vec3{2, 2, 1}
	if v.Length() != 3 {
		t.Errorf("%v Length is not 3", v)
	}
	v = Vec3{2, 1, 2}
	if v.Length() != 3 {
		t.Errorf("%v Length is not 3", v)
	}
	v = Vec3{1, 2, 2}
	if v.Length() != 3 {
		t.Errorf("%v Length is not 3", v)
	}
}

func TestAdd(t *testing.T) {
	v := Vec3{1, 2, 3}
	got := Add(NULL, v)
	if v != got {
		t.Errorf("Adding a null vector changed the vector")
	}
	got = Add(v, NULL)
	if v != got {
		t.Errorf("Adding a null vector changed the vector")
	}
	got = Add(v, v)
	want := Vec3{2, 4, 6}
	if got != want {
		t.Errorf("Add(%v,%v) = %v want %v", v, v, got, want)
	}
}

func TestSub(t *testing.T) {
	v := Vec3{1, 2, 3}
	got := Sub(v, NULL)
	if v != got {
		t.Errorf("Substracting a null vector changed the vector")
	}
	got = Sub(v, v)
	if got != NULL {
		t.Errorf("Sub(%v,%v) = %v want %v", v, v, got, NULL)
	}
	v2 := Vec3{9, 7, 5}
	got = Sub(v2, v)
	want := Vec3{8, 5, 2}
	if got != want {
		t.Errorf("Sub(%v,%v) = %v want %v", v2, v, got, want)
	}
}

func TestScale(t *testing.T) {
	v := Vec3{1, 2, 3}
	if got := Scale(1, v); got != v {
		t.Errorf("Scale(1,%v) = %v", v, got)
	}
	got := Scale(2, v)
	want := Vec3{2, 4, 6}
	if got != want {
		t.Errorf("Scale(2,%v) = %v want %v", v, got, want)
	}
	if got := Scale(0, v); got != NULL {
		t.Errorf("Scale(0,%v) = %v want %v", v, got, NULL)
	}
}

func TestNormalize(t *testing.T) {
	if got := NULL.Normalize(); got != NULL {
		t.Errorf("Normalize(%v) = %v", NULL, got)
	}
	v := Vec3{0, 3, 4}
	got := v.Normalize()
	want := Vec3{0, 0.6, 0.8}
	if got != want {
		t.Errorf("Normalize(%v) = %v want %v", v, got, want)
	}
}

func TestDot(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, -5, 6}
	if got := Dot(a, b); got != 12 {
		t.Errorf("Dot(%v,%v) = %v want 12", a, b, got)
	}
	if got := DoublePrecDot(a, b); got != 12 {
		t.Errorf("DoublePrecDot(%v,%v) = %v want 12", a, b, got)
	}
}

func TestCross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	if got, want := Cross(x, y), (Vec3{0, 0, 1}); got != want {
		t.Errorf("Cross(%v,%v) = %v want %v", x, y, got, want)
	}
}

func TestLerp(t *testing.T) {
	a := Vec3{0, 0, 20}
	b := Vec3{0, 0, -20}
	if got, want := Lerp(a, b, 0.25), (Vec3{0, 0, 10}); got != want {
		t.Errorf("Lerp(%v,%v,0.25) = %v want %v", a, b, got, want)
	}
}

func TestMinMax(t *testing.T) {
	a := Vec3{1, 5, -3}
	b := Vec3{2, -5, 3}
	mins, maxs := MinMax(a, b)
	if mins != (Vec3{1, -5, -3}) || maxs != (Vec3{2, 5, 3}) {
		t.Errorf("MinMax(%v,%v) = %v, %v", a, b, mins, maxs)
	}
}

func TestBezier(t *testing.T) {
	p0 := Vec3{0, 0, 0}
	p1 := Vec3{1, 2, 0}
	p2 := Vec3{2, 0, 0}
	for _, tc := range []struct {
		t    float32
		want Vec3
	}{
		{0, p0},
		{1, p2},
		{0.5, Vec3{1, 1, 0}},
	} {
		if got := Bezier(p0, p1, p2, tc.t); got != tc.want {
			t.Errorf("Bezier(%v,%v,%v,%v) = %v want %v", p0, p1, p2, tc.t, got, tc.want)
		}
	}
	u := Bezier2(Vec2{0, 0}, Vec2{0.5, 1}, Vec2{1, 0}, 0.5)
	if u != (Vec2{0.5, 0.5}) {
		t.Errorf("Bezier2(...,0.5) = %v", u)
	}
}

func TestAxisRemap(t *testing.T) {
	v := Vec3{1, 2, 3}
	got := ZUpToYUp(v)
	if want := (Vec3{1, 3, -2}); got != want {
		t.Errorf("ZUpToYUp(%v) = %v want %v", v, got, want)
	}
	if back := YUpToZUp(got); back != v {
		t.Errorf("YUpToZUp(%v) = %v want %v", got, back, v)
	}
}

func TestEqual(t *testing.T) {
	v1 := Vec3{2, 3, 4}
	v2 := Vec3{4, 3, 2}
	if v1 != v1 {
		t.Errorf("Vectors are not considered equal to them self")
	}
	if v1 == v2 {
		t.Errorf("Vectors %v and %v are considered equal", v1, v2)
	}
}
