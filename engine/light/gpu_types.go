package light

import _ "embed"

// MaxDirectionalLights is the size of the directional light array in the scene shader
// and the number of shadow map slots the composite pass can bind.
const MaxDirectionalLights = 4

// MaxPointLights is the size of the point light array in the scene shader.
const MaxPointLights = 8

// DirectionalLightSource is the WGSL definition of the DirectionalLight uniform struct.
// Fields are written one by one through the shader's uniform table.
//
//go:embed assets/directional_light.wgsl
var DirectionalLightSource string

// PointLightSource is the WGSL definition of the PointLight uniform struct.
//
//go:embed assets/point_light.wgsl
var PointLightSource string
