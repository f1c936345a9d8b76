package scene

type ObjectClass int

const (
	ClassUnknown ObjectClass = iota
	ClassNodeAttribute
	ClassModel
	ClassGeometry
	ClassDeformer
	ClassPose
	ClassVideo
	ClassTexture
	ClassMaterial
	ClassAnimationStack
	ClassAnimationLayer
	ClassAnimationCurveNode
	ClassAnimationCurve
	ClassImplementation
	ClassBindingTable
)

type ObjectSubClass int

const (
	SubClassUnknown ObjectSubClass = iota
	SubClassNull
	SubClassRoot
	SubClassLimbNode
	SubClassLight
	SubClassCamera
	SubClassMesh
	SubClassShape
	SubClassBlendShape
	SubClassBlendShapeChannel
	SubClassSkin
	SubClassCluster
	SubClassBindPose
	SubClassClip
)

var classNames = [...]string{
	ClassUnknown:            "",
	ClassNodeAttribute:      "NodeAttribute",
	ClassModel:              "Model",
	ClassGeometry:           "Geometry",
	ClassDeformer:           "Deformer",
	ClassPose:               "Pose",
	ClassVideo:              "Video",
	ClassTexture:            "Texture",
	ClassMaterial:           "Material",
	ClassAnimationStack:     "AnimationStack",
	ClassAnimationLayer:     "AnimationLayer",
	ClassAnimationCurveNode: "AnimationCurveNode",
	ClassAnimationCurve:     "AnimationCurve",
	ClassImplementation:     "Implementation",
	ClassBindingTable:       "BindingTable",
}

var subClassNames = [...]string{
	SubClassUnknown:           "",
	SubClassNull:              "Null",
	SubClassRoot:              "Root",
	SubClassLimbNode:          "LimbNode",
	SubClassLight:             "Light",
	SubClassCamera:            "Camera",
	SubClassMesh:              "Mesh",
	SubClassShape:             "Shape",
	SubClassBlendShape:        "BlendShape",
	SubClassBlendShapeChannel: "BlendShapeChannel",
	SubClassSkin:              "Skin",
	SubClassCluster:           "Cluster",
	SubClassBindPose:          "BindPose",
	SubClassClip:              "Clip",
}

var classByName = make(map[string]ObjectClass)
var subClassByName = make(map[string]ObjectSubClass)

func init() {
	for c, name := range classNames {
		if name != "" {
			classByName[name] = ObjectClass(c)
		}
	}
	for s, name := range subClassNames {
		if name != "" {
			subClassByName[name] = ObjectSubClass(s)
		}
	}
}

func (c ObjectClass) String() string {
	if c < 0 || int(c) >= len(classNames) {
		return ""
	}
	return classNames[c]
}

func (s ObjectSubClass) String() string {
	if s < 0 || int(s) >= len(subClassNames) {
		return ""
	}
	return subClassNames[s]
}

// GetObjectClass maps wire name to class. Empty name is Unknown without complaint
func GetObjectClass(name string) ObjectClass {
	if name == "" {
		return ClassUnknown
	}
	if c, ok := classByName[name]; ok {
		return c
	}
	log.Warnf("Unknown object class %q", name)
	return ClassUnknown
}

func GetObjectSubClass(name string) ObjectSubClass {
	if name == "" {
		return SubClassUnknown
	}
	if s, ok := subClassByName[name]; ok {
		return s
	}
	log.Warnf("Unknown object subclass %q", name)
	return SubClassUnknown
}

// InternalClassName is the class part stored in object full names.
// It differs from public class name for a few pairs.
func InternalClassName(c ObjectClass, s ObjectSubClass) string {
	switch c {
	case ClassDeformer:
		if s == SubClassCluster || s == SubClassBlendShapeChannel {
			return "SubDeformer"
		}
	case ClassAnimationStack:
		return "AnimStack"
	case ClassAnimationLayer:
		return "AnimLayer"
	case ClassAnimationCurveNode:
		return "AnimCurveNode"
	case ClassAnimationCurve:
		return "AnimCurve"
	}
	return c.String()
}
