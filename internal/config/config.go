package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/molview/internal/camera"
	"github.com/san-kum/molview/internal/density"
)

const (
	DefaultFov           = 50.0
	DefaultNear          = 0.1
	DefaultFar           = 1000.0
	DefaultDistance      = 10.0
	DefaultOrthoSize     = 10.0
	DefaultDampingFactor = 0.05
	DefaultKeyPanSpeed   = 7.0
	DefaultAutoRotate    = 2.0
	DefaultFPS           = 30
	DefaultOffsetStep    = 6.0
	DefaultBackground    = "#000000"
)

var (
	ErrInvalid       = errors.New("config: invalid value")
	ErrUnknownAction = errors.New("config: unknown action")
	ErrUnknownPreset = errors.New("config: unknown preset")
	ErrUnknownCamera = errors.New("config: unknown projection")
)

type Config struct {
	Camera   CameraConfig   `yaml:"camera"`
	Controls ControlsConfig `yaml:"controls"`
	Density  DensityConfig  `yaml:"density"`
	View     ViewConfig     `yaml:"view"`
	Layout   LayoutConfig   `yaml:"layout"`
}

type CameraConfig struct {
	Projection string  `yaml:"projection"`
	Fov        float64 `yaml:"fov"`
	Near       float64 `yaml:"near"`
	Far        float64 `yaml:"far"`
	Distance   float64 `yaml:"distance"`
	// OrthoSize is the half height of the orthographic frustum.
	OrthoSize float64 `yaml:"ortho_size"`
}

// ControlsConfig mirrors camera.Controls. Angles are in degrees. A zero
// MaxDistance or MaxZoom means unbounded, as does a missing azimuth limit.
type ControlsConfig struct {
	EnableDamping      bool    `yaml:"enable_damping"`
	DampingFactor      float64 `yaml:"damping_factor"`
	EnableRotate       bool    `yaml:"enable_rotate"`
	RotateSpeed        float64 `yaml:"rotate_speed"`
	EnableZoom         bool    `yaml:"enable_zoom"`
	ZoomSpeed          float64 `yaml:"zoom_speed"`
	EnablePan          bool    `yaml:"enable_pan"`
	PanSpeed           float64 `yaml:"pan_speed"`
	ScreenSpacePanning bool    `yaml:"screen_space_panning"`
	KeyPanSpeed        float64 `yaml:"key_pan_speed"`
	AutoRotate         bool    `yaml:"auto_rotate"`
	AutoRotateSpeed    float64 `yaml:"auto_rotate_speed"`

	MinDistance float64 `yaml:"min_distance"`
	MaxDistance float64 `yaml:"max_distance"`
	MinZoom     float64 `yaml:"min_zoom"`
	MaxZoom     float64 `yaml:"max_zoom"`

	MinPolarDeg   float64  `yaml:"min_polar_deg"`
	MaxPolarDeg   float64  `yaml:"max_polar_deg"`
	MinAzimuthDeg *float64 `yaml:"min_azimuth_deg,omitempty"`
	MaxAzimuthDeg *float64 `yaml:"max_azimuth_deg,omitempty"`

	Mouse MouseConfig `yaml:"mouse"`
	Touch TouchConfig `yaml:"touch"`
	Keys  KeysConfig  `yaml:"keys"`
}

// MouseConfig and TouchConfig bind inputs to actions by name: none,
// rotate, dolly, pan, dolly_pan or dolly_rotate.
type MouseConfig struct {
	Left   string `yaml:"left"`
	Middle string `yaml:"middle"`
	Right  string `yaml:"right"`
}

type TouchConfig struct {
	One string `yaml:"one"`
	Two string `yaml:"two"`
}

type KeysConfig struct {
	Left   string `yaml:"left"`
	Up     string `yaml:"up"`
	Right  string `yaml:"right"`
	Bottom string `yaml:"bottom"`
}

type DensityConfig struct {
	Positive float64 `yaml:"positive"`
	Negative float64 `yaml:"negative"`
	Visible  bool    `yaml:"visible"`
}

type ViewConfig struct {
	Theme      string `yaml:"theme"`
	Background string `yaml:"background"`
	Labels     bool   `yaml:"labels"`
	FPS        int    `yaml:"fps"`
	Debug      bool   `yaml:"debug"`
}

type LayoutConfig struct {
	OffsetStep float64 `yaml:"offset_step"`
}

func DefaultConfig() *Config {
	return &Config{
		Camera: CameraConfig{
			Projection: "perspective",
			Fov:        DefaultFov,
			Near:       DefaultNear,
			Far:        DefaultFar,
			Distance:   DefaultDistance,
			OrthoSize:  DefaultOrthoSize,
		},
		Controls: ControlsConfig{
			EnableDamping:      true,
			DampingFactor:      DefaultDampingFactor,
			EnableRotate:       true,
			RotateSpeed:        1,
			EnableZoom:         true,
			ZoomSpeed:          1,
			EnablePan:          true,
			PanSpeed:           1,
			ScreenSpacePanning: true,
			KeyPanSpeed:        DefaultKeyPanSpeed,
			AutoRotateSpeed:    DefaultAutoRotate,
			MaxPolarDeg:        180,
			Mouse:              MouseConfig{Left: "rotate", Middle: "dolly", Right: "pan"},
			Touch:              TouchConfig{One: "rotate", Two: "dolly_pan"},
			Keys:               KeysConfig{Left: "ArrowLeft", Up: "ArrowUp", Right: "ArrowRight", Bottom: "ArrowDown"},
		},
		Density: DensityConfig{
			Positive: density.DefaultThreshold,
			Negative: density.DefaultThreshold,
			Visible:  true,
		},
		View: ViewConfig{
			Theme:      "default",
			Background: DefaultBackground,
			FPS:        DefaultFPS,
		},
		Layout: LayoutConfig{OffsetStep: DefaultOffsetStep},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone deep-copies cfg, including the optional azimuth limits.
func (c *Config) Clone() *Config {
	cc := *c
	if c.Controls.MinAzimuthDeg != nil {
		v := *c.Controls.MinAzimuthDeg
		cc.Controls.MinAzimuthDeg = &v
	}
	if c.Controls.MaxAzimuthDeg != nil {
		v := *c.Controls.MaxAzimuthDeg
		cc.Controls.MaxAzimuthDeg = &v
	}
	return &cc
}

func (c *Config) Validate() error {
	cam := c.Camera
	if _, err := ParseProjection(cam.Projection); err != nil {
		return err
	}
	if cam.Fov <= 0 || cam.Fov >= 180 {
		return fmt.Errorf("%w: fov %g outside (0, 180)", ErrInvalid, cam.Fov)
	}
	if cam.Near <= 0 || cam.Far <= cam.Near {
		return fmt.Errorf("%w: clip planes near=%g far=%g", ErrInvalid, cam.Near, cam.Far)
	}
	if cam.Distance <= 0 || cam.OrthoSize <= 0 {
		return fmt.Errorf("%w: camera distance and ortho size must be positive", ErrInvalid)
	}
	ctl := c.Controls
	if ctl.DampingFactor <= 0 || ctl.DampingFactor > 1 {
		return fmt.Errorf("%w: damping factor %g outside (0, 1]", ErrInvalid, ctl.DampingFactor)
	}
	if ctl.MinPolarDeg < 0 || ctl.MaxPolarDeg > 180 || ctl.MinPolarDeg > ctl.MaxPolarDeg {
		return fmt.Errorf("%w: polar range [%g, %g]", ErrInvalid, ctl.MinPolarDeg, ctl.MaxPolarDeg)
	}
	if ctl.MaxDistance != 0 && ctl.MaxDistance < ctl.MinDistance {
		return fmt.Errorf("%w: distance range [%g, %g]", ErrInvalid, ctl.MinDistance, ctl.MaxDistance)
	}
	if ctl.MaxZoom != 0 && ctl.MaxZoom < ctl.MinZoom {
		return fmt.Errorf("%w: zoom range [%g, %g]", ErrInvalid, ctl.MinZoom, ctl.MaxZoom)
	}
	for _, name := range []string{ctl.Mouse.Left, ctl.Mouse.Middle, ctl.Mouse.Right, ctl.Touch.One, ctl.Touch.Two} {
		if _, err := ParseAction(name); err != nil {
			return err
		}
	}
	if c.Density.Positive < 0 || c.Density.Negative < 0 {
		return fmt.Errorf("%w: density thresholds are magnitudes", ErrInvalid)
	}
	if c.View.FPS <= 0 {
		return fmt.Errorf("%w: fps %d", ErrInvalid, c.View.FPS)
	}
	return nil
}

func ParseProjection(name string) (camera.Projection, error) {
	switch name {
	case "", "perspective":
		return camera.Perspective, nil
	case "orthographic", "ortho":
		return camera.Orthographic, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCamera, name)
}

func ParseAction(name string) (camera.Action, error) {
	switch name {
	case "", "none":
		return camera.ActionNone, nil
	case "rotate":
		return camera.ActionRotate, nil
	case "dolly", "zoom":
		return camera.ActionDolly, nil
	case "pan":
		return camera.ActionPan, nil
	case "dolly_pan":
		return camera.ActionDollyPan, nil
	case "dolly_rotate":
		return camera.ActionDollyRotate, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAction, name)
}

// NewCamera builds a camera looking at the origin from Distance along +z.
func (c *Config) NewCamera(aspect float64) (*camera.Camera, error) {
	proj, err := ParseProjection(c.Camera.Projection)
	if err != nil {
		return nil, err
	}
	if aspect <= 0 {
		aspect = 1
	}
	var cam *camera.Camera
	if proj == camera.Orthographic {
		h := c.Camera.OrthoSize
		cam = camera.NewOrthographic(-h*aspect, h*aspect, h, -h, c.Camera.Near, c.Camera.Far)
	} else {
		cam = camera.NewPerspective(c.Camera.Fov, aspect, c.Camera.Near, c.Camera.Far)
	}
	cam.Position = mgl64.Vec3{0, 0, c.Camera.Distance}
	return cam, nil
}

// Apply copies the controls section onto ctl.
func (c *Config) Apply(ctl *camera.Controls) error {
	cc := c.Controls
	var actions [5]camera.Action
	for i, name := range []string{cc.Mouse.Left, cc.Mouse.Middle, cc.Mouse.Right, cc.Touch.One, cc.Touch.Two} {
		a, err := ParseAction(name)
		if err != nil {
			return err
		}
		actions[i] = a
	}

	ctl.EnableDamping = cc.EnableDamping
	ctl.DampingFactor = cc.DampingFactor
	ctl.EnableRotate = cc.EnableRotate
	ctl.RotateSpeed = cc.RotateSpeed
	ctl.EnableZoom = cc.EnableZoom
	ctl.ZoomSpeed = cc.ZoomSpeed
	ctl.EnablePan = cc.EnablePan
	ctl.PanSpeed = cc.PanSpeed
	ctl.ScreenSpacePanning = cc.ScreenSpacePanning
	ctl.KeyPanSpeed = cc.KeyPanSpeed
	ctl.AutoRotate = cc.AutoRotate
	ctl.AutoRotateSpeed = cc.AutoRotateSpeed

	ctl.MinDistance = cc.MinDistance
	ctl.MaxDistance = unbounded(cc.MaxDistance)
	ctl.MinZoom = cc.MinZoom
	ctl.MaxZoom = unbounded(cc.MaxZoom)
	ctl.MinPolarAngle = mgl64.DegToRad(cc.MinPolarDeg)
	ctl.MaxPolarAngle = mgl64.DegToRad(cc.MaxPolarDeg)
	ctl.MinAzimuthAngle = math.Inf(-1)
	ctl.MaxAzimuthAngle = math.Inf(1)
	if cc.MinAzimuthDeg != nil {
		ctl.MinAzimuthAngle = mgl64.DegToRad(*cc.MinAzimuthDeg)
	}
	if cc.MaxAzimuthDeg != nil {
		ctl.MaxAzimuthAngle = mgl64.DegToRad(*cc.MaxAzimuthDeg)
	}

	ctl.MouseButtons = camera.MouseButtons{Left: actions[0], Middle: actions[1], Right: actions[2]}
	ctl.Touches = camera.Touches{One: actions[3], Two: actions[4]}
	ctl.Keys = camera.Keys{Left: cc.Keys.Left, Up: cc.Keys.Up, Right: cc.Keys.Right, Bottom: cc.Keys.Bottom}
	return nil
}

func unbounded(v float64) float64 {
	if v == 0 {
		return math.Inf(1)
	}
	return v
}

func (c *Config) Thresholds() density.Thresholds {
	return density.Thresholds{Positive: c.Density.Positive, Negative: c.Density.Negative}
}
