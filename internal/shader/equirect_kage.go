//go:build ignore

//kage:unit pixels

package main

// Lens and view state, see shader.Uniforms.
var FOV float
var Center vec2
var Yaw float
var Pitch float
var Background vec4

const Pi = 3.14159265358979

func texel(p vec2) vec4 {
	p = clamp(p, vec2(0), imageSrc0Size()-vec2(1))
	return imageSrc0UnsafeAt(imageSrc0Origin() + p + vec2(0.5))
}

// sampleBilinear blends the four texel centers around st (top-left origin),
// repeating the border texel outside the image.
func sampleBilinear(st vec2) vec4 {
	f := clamp(st, vec2(0), vec2(1))*imageSrc0Size() - vec2(0.5)
	b := floor(f)
	d := f - b
	c00 := texel(b)
	c10 := texel(b + vec2(1, 0))
	c01 := texel(b + vec2(0, 1))
	c11 := texel(b + vec2(1, 1))
	return mix(mix(c00, c10, d.x), mix(c01, c11, d.x), d.y)
}

// view applies RotY(Yaw) * RotX(-Pitch).
func view(d vec3) vec3 {
	cp := cos(-Pitch)
	sp := sin(-Pitch)
	d = vec3(d.x, cp*d.y-sp*d.z, sp*d.y+cp*d.z)
	cy := cos(Yaw)
	sy := sin(Yaw)
	return vec3(cy*d.x+sy*d.z, d.y, -sy*d.x+cy*d.z)
}

func Fragment(dstPos vec4, srcPos vec2, color vec4) vec4 {
	size := imageDstSize()
	pos := dstPos.xy - imageDstOrigin()
	u := 2*pos.x/size.x - 1
	v := 1 - 2*pos.y/size.y

	lon := u * Pi
	lat := v * Pi / 2
	d := view(vec3(cos(lat)*sin(lon), sin(lat), cos(lat)*cos(lon)))

	theta := acos(clamp(d.z, -1, 1))
	r := theta / (FOV / 2)
	if r > 1.000001 {
		return Background
	}
	r = min(r, 1)

	psi := atan2(d.y, d.x)
	st := Center + r*0.5*vec2(cos(psi), sin(psi))
	return sampleBilinear(vec2(st.x, 1-st.y))
}
