// Package shaders contains GLSL sources for the scene renderer.
package shaders

// ForwardVertexShader transforms world-space geometry. Meshes are baked to
// world space on import, so only the view-projection is needed.
const ForwardVertexShader = `#version 410 core
layout (location = 0) in vec3 aPosition;
layout (location = 1) in vec3 aNormal;
layout (location = 2) in vec2 aTexCoord;
layout (location = 3) in vec2 aTexCoord1;

uniform mat4 uViewProj;

out vec3 vNormal;
out vec2 vUV0;
out vec2 vUV1;

void main() {
    vNormal = aNormal;
    vUV0 = aTexCoord;
    vUV1 = aTexCoord1;
    gl_Position = uViewProj * vec4(aPosition, 1.0);
}
`

// ForwardFragmentShader shades albedo with hemispheric ambient and an
// optional baked lightmap, writing linear HDR color.
const ForwardFragmentShader = `#version 410 core
in vec3 vNormal;
in vec2 vUV0;
in vec2 vUV1;

out vec4 FragColor;

uniform vec3 uAlbedoColor;
uniform float uAlpha;
uniform float uAlphaCutoff;
uniform sampler2D uAlbedo;
uniform bool uHasAlbedo;

uniform sampler2D uLightmap;
uniform bool uHasLightmap;
uniform int uLightmapUV;
uniform bool uLightmapAsShadowmap;

uniform vec3 uHemiDirection;
uniform vec3 uHemiSky;
uniform vec3 uHemiGround;
uniform float uHemiIntensity;

void main() {
    vec4 base = vec4(uAlbedoColor, uAlpha);
    if (uHasAlbedo) {
        base *= texture(uAlbedo, vUV0);
    }
    if (uAlphaCutoff > 0.0 && base.a < uAlphaCutoff) {
        discard;
    }

    vec3 n = normalize(gl_FrontFacing ? vNormal : -vNormal);
    float t = 0.5 * dot(n, normalize(uHemiDirection)) + 0.5;
    vec3 ambient = mix(uHemiGround, uHemiSky, t) * uHemiIntensity;
    vec3 color = base.rgb * ambient;

    if (uHasLightmap) {
        vec2 uv = uLightmapUV == 1 ? vUV1 : vUV0;
        vec3 lm = texture(uLightmap, uv).rgb;
        if (uLightmapAsShadowmap) {
            color *= lm;
        } else {
            color += base.rgb * lm;
        }
    }

    FragColor = vec4(color, base.a);
}
`
