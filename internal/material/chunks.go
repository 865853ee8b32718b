package material

// Library chunks shared by the built-in programs. Custom sources may include any of
// them as well.
var DefaultChunks = Chunks{
	"common": `#define PI 3.141592653589793
#define PI2 6.283185307179586
#define RECIPROCAL_PI 0.3183098861837907
float saturate(float a) { return clamp(a, 0.0, 1.0); }
vec2 equirectUv(vec3 dir) {
    float u = atan(dir.z, dir.x) * (1.0 / PI2) + 0.5;
    float v = asin(clamp(dir.y, -1.0, 1.0)) * RECIPROCAL_PI + 0.5;
    return vec2(u, v);
}`,

	"camera_pars": `uniform mat4 model;
uniform mat4 viewProjection;
uniform vec3 cameraPosition;`,

	"shadowmap_pars_vertex": `uniform mat4 lightSpace;
uniform float shadowNormalBias;
out vec4 vShadowCoord;`,

	"shadowmap_pars_fragment": `in vec4 vShadowCoord;
uniform sampler2D shadowMap;
uniform float shadowMapSize;
uniform bool receiveShadow;
float getShadow() {
    if (!receiveShadow) return 1.0;
    vec3 coord = vShadowCoord.xyz / vShadowCoord.w * 0.5 + 0.5;
    if (coord.z > 1.0 || coord.x < 0.0 || coord.x > 1.0 || coord.y < 0.0 || coord.y > 1.0) return 1.0;
    float texel = 1.0 / shadowMapSize;
    float lit = 0.0;
    for (int x = -1; x <= 1; x++) {
        for (int y = -1; y <= 1; y++) {
            float depth = texture(shadowMap, coord.xy + vec2(x, y) * texel).r;
            lit += coord.z - 0.0005 > depth ? 0.0 : 1.0;
        }
    }
    return lit / 9.0;
}`,

	"envmap_pars_fragment": `uniform sampler2D envMap;
uniform float envMapIntensity;
uniform float envMapMaxLod;
vec3 sampleEnv(vec3 dir, float roughness) {
    return textureLod(envMap, equirectUv(dir), roughness * envMapMaxLod).rgb;
}`,

	"lights_pars_fragment": `uniform vec3 lightDirection;
uniform vec3 lightColor;
uniform float lightIntensity;`,

	"bsdf_pars_fragment": `float distributionGGX(float NdotH, float roughness) {
    float a = roughness * roughness;
    float a2 = a * a;
    float d = NdotH * NdotH * (a2 - 1.0) + 1.0;
    return a2 / max(PI * d * d, 1e-5);
}
float visibilitySmith(float NdotV, float NdotL, float roughness) {
    float k = (roughness + 1.0) * (roughness + 1.0) / 8.0;
    float gv = NdotV / (NdotV * (1.0 - k) + k);
    float gl = NdotL / (NdotL * (1.0 - k) + k);
    return gv * gl / max(4.0 * NdotV * NdotL, 1e-5);
}
vec3 fresnelSchlick(float cosTheta, vec3 f0) {
    return f0 + (1.0 - f0) * pow(1.0 - cosTheta, 5.0);
}`,

	"tonemapping_fragment": `FragColor.rgb = acesFilmic(FragColor.rgb * toneMappingExposure);`,

	"tonemapping_pars_fragment": `uniform float toneMappingExposure;
vec3 acesFilmic(vec3 color) {
    color *= 0.6;
    return saturate3((color * (2.51 * color + 0.03)) / (color * (2.43 * color + 0.59) + 0.14));
}`,

	"colorspace_pars_fragment": `vec3 saturate3(vec3 c) { return clamp(c, 0.0, 1.0); }
vec3 linearToSRGB(vec3 c) {
    return mix(pow(c, vec3(0.41666)) * 1.055 - vec3(0.055), c * 12.92, vec3(lessThanEqual(c, vec3(0.0031308))));
}`,

	"colorspace_fragment": `FragColor.rgb = linearToSRGB(FragColor.rgb);`,
}

// PhysicalProgram is the lit metallic-roughness program every Physical is drawn with.
var PhysicalProgram = Program{
	Vertex: `#version 410 core
layout(location = 0) in vec3 position;
layout(location = 1) in vec3 normal;
#include <camera_pars>
#include <shadowmap_pars_vertex>
out vec3 vWorldPosition;
out vec3 vNormal;
#include <csm_pars_vertex>
void main() {
#include <csm_main_vertex>
    vec4 world = model * vec4(position, 1.0);
    vWorldPosition = world.xyz;
    vNormal = mat3(transpose(inverse(model))) * normal;
    vShadowCoord = lightSpace * (world + vec4(normalize(vNormal) * shadowNormalBias, 0.0));
    gl_Position = viewProjection * world;
}`,

	Fragment: `#version 410 core
in vec3 vWorldPosition;
in vec3 vNormal;
out vec4 FragColor;
#include <common>
#include <camera_pars>
#include <lights_pars_fragment>
#include <bsdf_pars_fragment>
#include <shadowmap_pars_fragment>
#include <envmap_pars_fragment>
#include <colorspace_pars_fragment>
#include <tonemapping_pars_fragment>
uniform vec3 diffuse;
uniform float metalness;
uniform float roughness;
uniform float transmission;
uniform float ior;
uniform float thickness;
#include <csm_pars_fragment>
void main() {
#include <csm_main_fragment>
    vec3 N = normalize(vNormal);
    if (!gl_FrontFacing) N = -N;
    vec3 V = normalize(cameraPosition - vWorldPosition);
    vec3 L = normalize(-lightDirection);
    vec3 H = normalize(V + L);
    float NdotL = saturate(dot(N, L));
    float NdotV = max(dot(N, V), 1e-4);
    float NdotH = saturate(dot(N, H));
    float r = max(roughness, 0.04);

    float f0s = pow((ior - 1.0) / (ior + 1.0), 2.0);
    vec3 f0 = mix(vec3(f0s), diffuse, metalness);
    vec3 F = fresnelSchlick(saturate(dot(H, V)), f0);
    vec3 specular = F * distributionGGX(NdotH, r) * visibilitySmith(NdotV, NdotL, r);
    vec3 kd = (1.0 - F) * (1.0 - metalness) * (1.0 - transmission);
    vec3 direct = (kd * diffuse * RECIPROCAL_PI + specular) * lightColor * lightIntensity * NdotL * getShadow();

    vec3 R = reflect(-V, N);
    vec3 envF = fresnelSchlick(NdotV, f0);
    vec3 indirect = envMapIntensity * (kd * diffuse * sampleEnv(N, 1.0) + envF * sampleEnv(R, r));

    vec3 refracted = refract(-V, N, 1.0 / ior);
    vec3 transmitted = transmission * diffuse * sampleEnv(refracted, saturate(r + thickness * 0.1)) * envMapIntensity;

    float opacity = 1.0 - transmission * (1.0 - max(max(envF.r, envF.g), envF.b));
    FragColor = vec4(direct + indirect + transmitted, opacity);
#include <tonemapping_fragment>
#include <colorspace_fragment>
}`,
}

// DepthProgram writes depth only; the shadow pass draws casters with it.
var DepthProgram = Program{
	Vertex: `#version 410 core
layout(location = 0) in vec3 position;
uniform mat4 model;
uniform mat4 lightSpace;
#include <csm_pars_vertex>
void main() {
#include <csm_main_vertex>
    gl_Position = lightSpace * model * vec4(position, 1.0);
}`,

	Fragment: `#version 410 core
out vec4 FragColor;
#include <common>
#include <csm_pars_fragment>
void main() {
#include <csm_main_fragment>
    FragColor = vec4(1.0);
}`,
}
