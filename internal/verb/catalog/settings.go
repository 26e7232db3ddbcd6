// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"fmt"

	"github.com/pfxkit/pfxkit/internal/regedit"
	"github.com/pfxkit/pfxkit/internal/verb"
)

const (
	keyDrivers     = `HKEY_CURRENT_USER\Software\Wine\Drivers`
	keyDirect3D    = `HKEY_CURRENT_USER\Software\Wine\Direct3D`
	keyExplorer    = `HKEY_CURRENT_USER\Software\Wine\Explorer`
	keyDesktops    = `HKEY_CURRENT_USER\Software\Wine\Explorer\Desktops`
	keyDesktop     = `HKEY_CURRENT_USER\Control Panel\Desktop`
	keyWineDbg     = `HKEY_CURRENT_USER\Software\Wine\WineDbg`
	keyFileOpen    = `HKEY_CURRENT_USER\Software\Wine\FileOpenAssociations`
	keyX11Driver   = `HKEY_CURRENT_USER\Software\Wine\X11 Driver`
	keyDirectInput = `HKEY_CURRENT_USER\Software\Wine\DirectInput`
)

func setting(name, title, publisher, year string, actions ...verb.Action) verb.Verb {
	return verb.New(name, verb.Setting, title, publisher, year).With(actions...)
}

// wineSetting is a setting that imports a single registry value.
func wineSetting(name, title, key, value string, v regedit.Value) verb.Verb {
	return setting(name, title, "Wine", "", patch(regedit.NewPatch().Set(key, value, v)))
}

func settings() []verb.Verb {
	out := []verb.Verb{}

	for _, w := range []struct{ id, label, year string }{
		{"win7", "Windows 7", "2009"},
		{"win8", "Windows 8", "2012"},
		{"win81", "Windows 8.1", "2013"},
		{"win10", "Windows 10", "2015"},
		{"win11", "Windows 11", "2021"},
	} {
		out = append(out, setting(w.id, "Set Windows version to "+w.label, "Microsoft", w.year,
			verb.RunConfigTool{Args: []string{"-v", w.id}}))
	}

	out = append(out,
		wineSetting("graphics=x11", "Set graphics driver to X11", keyDrivers, "Graphics", regedit.String("x11")),
		wineSetting("graphics=wayland", "Set graphics driver to Wayland", keyDrivers, "Graphics", regedit.String("wayland")),
		wineSetting("sound=pulse", "Set sound driver to PulseAudio", keyDrivers, "Audio", regedit.String("pulse")),
		wineSetting("sound=alsa", "Set sound driver to ALSA", keyDrivers, "Audio", regedit.String("alsa")),
		wineSetting("sound=disabled", "Disable sound", keyDrivers, "Audio", regedit.String("")),
		wineSetting("renderer=vulkan", "Set renderer to Vulkan", keyDirect3D, "renderer", regedit.String("vulkan")),
		wineSetting("renderer=gl", "Set renderer to OpenGL", keyDirect3D, "renderer", regedit.String("gl")),
		wineSetting("renderer=gdi", "Set renderer to GDI", keyDirect3D, "renderer", regedit.String("gdi")),
		setting("vd=off", "Disable virtual desktop", "Wine", "", patch(regedit.NewPatch().
			DeleteValue(keyExplorer, "Desktop").
			DeleteValue(keyDesktops, "Default"))),
	)

	for _, size := range []string{"640x480", "800x600", "1024x768", "1280x1024", "1440x900"} {
		out = append(out, setting("vd="+size, "Enable virtual desktop "+size, "Wine", "", patch(regedit.NewPatch().
			Set(keyExplorer, "Desktop", regedit.String("Default")).
			Set(keyDesktops, "Default", regedit.String(size)))))
	}

	out = append(out,
		wineSetting("csmt=on", "Enable CSMT (default)", keyDirect3D, "csmt", regedit.DWord(1)),
		wineSetting("csmt=off", "Disable CSMT", keyDirect3D, "csmt", regedit.DWord(0)),
		fontSmoothing("fontsmooth=disable", "Disable font smoothing", "0", 0, -1),
		fontSmoothing("fontsmooth=rgb", "Enable subpixel smoothing RGB", "2", 2, 1),
		fontSmoothing("fontsmooth=bgr", "Enable subpixel smoothing BGR", "2", 2, 0),
		fontSmoothing("fontsmooth=gray", "Enable grayscale smoothing", "2", 1, -1),
		wineSetting("nocrashdialog", "Disable crash dialog", keyWineDbg, "ShowCrashDialog", regedit.DWord(0)),
		wineSetting("mimeassoc=off", "Disable MIME associations", keyFileOpen, "Enable", regedit.String("N")),
		wineSetting("mimeassoc=on", "Enable MIME associations", keyFileOpen, "Enable", regedit.String("Y")),
		wineSetting("grabfullscreen=y", "Force cursor clipping fullscreen", keyX11Driver, "GrabFullscreen", regedit.String("Y")),
		wineSetting("grabfullscreen=n", "Disable cursor clipping fullscreen", keyX11Driver, "GrabFullscreen", regedit.String("N")),
		wineSetting("mwo=force", "MouseWarpOverride force", keyDirectInput, "MouseWarpOverride", regedit.String("force")),
		wineSetting("mwo=enabled", "MouseWarpOverride enabled", keyDirectInput, "MouseWarpOverride", regedit.String("enable")),
		wineSetting("mwo=disable", "MouseWarpOverride disable", keyDirectInput, "MouseWarpOverride", regedit.String("disable")),
	)

	for _, mb := range []string{"512", "1024", "2048"} {
		out = append(out, wineSetting("videomemorysize="+mb, fmt.Sprintf("Set VRAM to %sMB", mb),
			keyDirect3D, "VideoMemorySize", regedit.String(mb)))
	}

	out = append(out, setting("isolate_home", "Remove links to $HOME", "Wine", "",
		verb.CustomProcedure{Name: "isolate-home", Run: isolateHome}))

	return out
}

// fontSmoothing builds a font smoothing setting. A negative orientation
// leaves FontSmoothingOrientation unset.
func fontSmoothing(name, title, smoothing string, kind uint32, orientation int) verb.Verb {
	p := regedit.NewPatch().
		Set(keyDesktop, "FontSmoothing", regedit.String(smoothing)).
		Set(keyDesktop, "FontSmoothingType", regedit.DWord(kind))
	if orientation >= 0 {
		p.Set(keyDesktop, "FontSmoothingOrientation", regedit.DWord(uint32(orientation)))
	}
	return setting(name, title, "Wine", "", patch(p))
}
