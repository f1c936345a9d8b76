package config

import "github.com/pkg/errors"

const (
	FBXunknown FBXVersion = 0
	FBX2014    FBXVersion = 7400
	FBX2016    FBXVersion = 7500
	FBX2019    FBXVersion = 7700
)

type FBXVersion uint32

var fbxVersion FBXVersion = FBX2019

func (v FBXVersion) String() string {
	switch v {
	case FBX2014:
		return "FBX2014"
	case FBX2016:
		return "FBX2016"
	case FBX2019:
		return "FBX2019"
	default:
		return "FBXunknown"
	}
}

func (v FBXVersion) Supported() bool {
	return v == FBX2014 || v == FBX2016 || v == FBX2019
}

// Version used for newly created documents
func GetFBXVersion() FBXVersion {
	return fbxVersion
}

func SetFBXVersion(v FBXVersion) error {
	if !v.Supported() {
		return errors.Errorf("Unsupported fbx version %d", v)
	}
	fbxVersion = v
	return nil
}

var creator = "fbxdoc 1.0.0"

func GetCreator() string {
	return creator
}

func SetCreator(c string) {
	creator = c
}
