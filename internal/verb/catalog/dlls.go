// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"github.com/pfxkit/pfxkit/internal/regedit"
	"github.com/pfxkit/pfxkit/internal/verb"
)

const (
	directXRedist       = "https://download.microsoft.com/download/8/4/A/84A35BF1-DAFE-4AE8-82AF-AD2AE20B6B14/directx_Jun2010_redist.exe"
	directXRedistSHA256 = "8746ee1a84a083a90e37899d71d50d5c7c015e69688a466aa80447f011780c0d"
)

var (
	vcArgs     = []string{"/install", "/quiet", "/norestart"}
	dotnetArgs = []string{"/q", "/norestart"}
	dxvkDLLs   = []string{"d3d9", "d3d10core", "d3d11", "dxgi"}
	// xactEngines are the XACT COM servers shipped in the June 2010
	// redistributable.
	xactEngines = []string{
		"xactengine2_0.dll", "xactengine2_1.dll", "xactengine2_2.dll", "xactengine2_3.dll",
		"xactengine2_4.dll", "xactengine2_5.dll", "xactengine2_6.dll", "xactengine2_7.dll",
		"xactengine2_8.dll", "xactengine2_9.dll", "xactengine2_10.dll", "xactengine3_0.dll",
		"xactengine3_1.dll", "xactengine3_2.dll", "xactengine3_3.dll", "xactengine3_4.dll",
		"xactengine3_5.dll", "xactengine3_6.dll", "xactengine3_7.dll",
	}
)

func dll(name, title, publisher, year string, actions ...verb.Action) verb.Verb {
	return verb.New(name, verb.DynamicLibrary, title, publisher, year).With(actions...)
}

// dxvk installs one DXVK release and switches its DLLs to native.
func dxvk(name, title, version, url string) verb.Verb {
	dlls := make([]string, len(dxvkDLLs))
	for i, d := range dxvkDLLs {
		dlls[i] = d + ".dll"
	}
	pkg := archiveDLLs{
		File: remote(url, "dxvk-"+version+".tar.gz", ""),
		Root: "dxvk-" + version, Dir32: "x32", Dir64: "x64",
		DLLs: dlls,
	}
	actions := []verb.Action{verb.CustomProcedure{Name: "install-dxvk", Run: pkg.install}}
	for _, d := range dxvkDLLs {
		actions = append(actions, verb.SetDLLOverride{DLL: d, Mode: verb.Native})
	}
	return dll(name, title, "Philip Rebohle", "2024", actions...)
}

func dlls() []verb.Verb {
	directX := remote(directXRedist, "directx_Jun2010_redist.exe", directXRedistSHA256)

	return []verb.Verb{
		dll("vcrun2022", "Visual C++ 2015-2022 Runtime", "Microsoft", "2022",
			installer("https://aka.ms/vs/17/release/vc_redist.x86.exe", "vc_redist.x86.exe", "", vcArgs...),
			installer("https://aka.ms/vs/17/release/vc_redist.x64.exe", "vc_redist.x64.exe", "", vcArgs...)),
		dll("vcrun2019", "Visual C++ 2015-2019 Runtime", "Microsoft", "2019", call("vcrun2022")),
		dll("vcrun2017", "Visual C++ 2017 Runtime", "Microsoft", "2017", call("vcrun2022")),
		dll("vcrun2015", "Visual C++ 2015 Runtime", "Microsoft", "2015", call("vcrun2022")),
		dll("vcrun2013", "Visual C++ 2013 Runtime", "Microsoft", "2013",
			installer("https://download.microsoft.com/download/2/E/6/2E61CFA4-993B-4DD4-91DA-3737CD5CD6E3/vcredist_x86.exe", "vcredist_2013_x86.exe", "", vcArgs...),
			installer("https://download.microsoft.com/download/2/E/6/2E61CFA4-993B-4DD4-91DA-3737CD5CD6E3/vcredist_x64.exe", "vcredist_2013_x64.exe", "", vcArgs...)),
		dll("vcrun2012", "Visual C++ 2012 Runtime", "Microsoft", "2012",
			installer("https://download.microsoft.com/download/1/6/B/16B06F60-3B20-4FF2-B699-5E9B7962F9AE/VSU_4/vcredist_x86.exe", "vcredist_2012_x86.exe", "", vcArgs...),
			installer("https://download.microsoft.com/download/1/6/B/16B06F60-3B20-4FF2-B699-5E9B7962F9AE/VSU_4/vcredist_x64.exe", "vcredist_2012_x64.exe", "", vcArgs...)),
		dll("vcrun2010", "Visual C++ 2010 Runtime", "Microsoft", "2010",
			installer("https://download.microsoft.com/download/1/6/5/165255E7-1014-4D0A-B094-B6A430A6BFFC/vcredist_x86.exe", "vcredist_2010_x86.exe", "", dotnetArgs...),
			installer("https://download.microsoft.com/download/1/6/5/165255E7-1014-4D0A-B094-B6A430A6BFFC/vcredist_x64.exe", "vcredist_2010_x64.exe", "", dotnetArgs...)),
		dll("vcrun2008", "Visual C++ 2008 Runtime", "Microsoft", "2008",
			installer("https://download.microsoft.com/download/5/D/8/5D8C65CB-C849-4025-8E95-C3966CAFD8AE/vcredist_x86.exe", "vcredist_2008_x86.exe", "", "/q"),
			installer("https://download.microsoft.com/download/5/D/8/5D8C65CB-C849-4025-8E95-C3966CAFD8AE/vcredist_x64.exe", "vcredist_2008_x64.exe", "", "/q")),
		dll("vcrun2005", "Visual C++ 2005 Runtime", "Microsoft", "2005",
			installer("https://download.microsoft.com/download/8/B/4/8B42259F-5D70-43F4-AC2E-4B208FD8D66A/vcredist_x86.EXE", "vcredist_2005_x86.exe", "", "/q"),
			installer("https://download.microsoft.com/download/8/B/4/8B42259F-5D70-43F4-AC2E-4B208FD8D66A/vcredist_x64.EXE", "vcredist_2005_x64.exe", "", "/q")),

		dll("dotnet48", "MS .NET 4.8", "Microsoft", "2019",
			installer("https://download.visualstudio.microsoft.com/download/pr/2d6bb6b2-226a-4baa-bdec-798822606ff1/8494001c276a4b96804cde7829c04d7f/ndp48-x86-x64-allos-enu.exe",
				"ndp48-x86-x64-allos-enu.exe", "68c9986a8dcc0214d909aa1f31bee9fb5461bb839edca996a75b08ddffc1483f", dotnetArgs...)),
		dll("dotnet472", "MS .NET 4.7.2", "Microsoft", "2018",
			installer("https://download.microsoft.com/download/6/E/4/6E48E8AB-DC00-419E-9704-06DD46E5F81D/NDP472-KB4054530-x86-x64-AllOS-ENU.exe",
				"NDP472-KB4054530-x86-x64-AllOS-ENU.exe", "c908f0a5bea4be282e35acba307d0061b71b8b66ca9894943d3cbb53cad019bc", dotnetArgs...)),
		dll("dotnet462", "MS .NET 4.6.2", "Microsoft", "2016",
			installer("https://download.visualstudio.microsoft.com/download/pr/8e396c75-4d0d-41d3-aea8-848babc2736a/80b431456d8866ebe053eb8b81a168b3/ndp462-kb3151800-x86-x64-allos-enu.exe",
				"NDP462-KB3151800-x86-x64-AllOS-ENU.exe", "", dotnetArgs...)),
		dll("dotnet46", "MS .NET 4.6", "Microsoft", "2015",
			installer("https://download.microsoft.com/download/6/F/9/6F9673B1-87D1-46C4-BF04-95F24C3EB9DA/enu_netfx/NDP46-KB3045557-x86-x64-AllOS-ENU_exe/NDP46-KB3045557-x86-x64-AllOS-ENU.exe",
				"NDP46-KB3045557-x86-x64-AllOS-ENU.exe", "", dotnetArgs...)),
		dll("dotnet40", "MS .NET 4.0", "Microsoft", "2011",
			installer("https://download.microsoft.com/download/9/5/A/95A9616B-7A37-4AF6-BC36-D6EA96C8DAAE/dotNetFx40_Full_x86_x64.exe",
				"dotNetFx40_Full_x86_x64.exe", "65e064258f2e418816b304f646ff9e87af101e4c9552ab064bb74d281c38659f", dotnetArgs...)),
		dll("dotnet35sp1", "MS .NET 3.5 SP1", "Microsoft", "2008",
			installer("https://download.microsoft.com/download/0/6/1/061F001C-8752-4600-A198-53214C69B51F/dotnetfx35setup.exe", "dotnetfx35setup.exe", "", "/q")),
		dll("dotnet6", "MS .NET Runtime 6.0", "Microsoft", "2023",
			installer("https://download.visualstudio.microsoft.com/download/pr/c8af603e-ef3d-4bf4-9c09-26a5de6f3c87/680348e491ff4206daf8064406d6841a/dotnet-runtime-6.0.36-win-x86.exe", "dotnet-runtime-6.0.36-win-x86.exe", "", vcArgs...),
			installer("https://download.visualstudio.microsoft.com/download/pr/61747fc6-7236-4d5d-a1c8-81f953b3d22a/6dc2e68a7519e9effb54c8c0e3e96e5f/dotnet-runtime-6.0.36-win-x64.exe", "dotnet-runtime-6.0.36-win-x64.exe", "", vcArgs...)),
		dll("dotnet7", "MS .NET Runtime 7.0", "Microsoft", "2023",
			installer("https://download.visualstudio.microsoft.com/download/pr/4986134e-391c-4121-aabc-c60ef5d048af/5354323f0a90fc4bf98fed19429aa803/dotnet-runtime-7.0.20-win-x86.exe", "dotnet-runtime-7.0.20-win-x86.exe", "", vcArgs...),
			installer("https://download.visualstudio.microsoft.com/download/pr/abe74d39-d26f-4a5f-a0e8-80e00a8a7885/d5dc5f5f1e5c3adfbb43dbbe41168a5a/dotnet-runtime-7.0.20-win-x64.exe", "dotnet-runtime-7.0.20-win-x64.exe", "", vcArgs...)),
		dll("dotnet8", "MS .NET Runtime 8.0", "Microsoft", "2024",
			installer("https://download.visualstudio.microsoft.com/download/pr/6e1f5faf-ee7e-4869-b480-41eb458cf09f/ae8ee33cc3b0b1b11a8180f0e08e7390/dotnet-runtime-8.0.11-win-x86.exe", "dotnet-runtime-8.0.11-win-x86.exe", "", vcArgs...),
			installer("https://download.visualstudio.microsoft.com/download/pr/53d7acb6-48a5-4328-8d0b-e5045b96b9bc/a10d41d8ad07d317b8eed6cf4e63d5c2/dotnet-runtime-8.0.11-win-x64.exe", "dotnet-runtime-8.0.11-win-x64.exe", "", vcArgs...)),
		dll("dotnetdesktop8", "MS .NET Desktop Runtime 8.0", "Microsoft", "2024",
			installer("https://download.visualstudio.microsoft.com/download/pr/04af55e3-4874-4e62-9bfc-c0a77bfd47f9/1b28c7c9928dec736a10fbd343b67b1e/windowsdesktop-runtime-8.0.11-win-x86.exe", "windowsdesktop-runtime-8.0.11-win-x86.exe", "", vcArgs...),
			installer("https://download.visualstudio.microsoft.com/download/pr/27bcdd70-ce64-4049-ba24-2b14f9267729/d4a435e55182ce5424757bffc0bfc6b0/windowsdesktop-runtime-8.0.11-win-x64.exe", "windowsdesktop-runtime-8.0.11-win-x64.exe", "", vcArgs...)),

		dxvk("dxvk", "DXVK (latest)", "2.5.3", "https://github.com/doitsujin/dxvk/releases/download/v2.5.3/dxvk-2.5.3.tar.gz"),
		dxvk("dxvk2060", "DXVK 2.6", "2.6", "https://github.com/doitsujin/dxvk/releases/download/v2.6/dxvk-2.6.tar.gz"),
		dxvk("dxvk2050", "DXVK 2.5", "2.5", "https://github.com/doitsujin/dxvk/releases/download/v2.5/dxvk-2.5.tar.gz"),
		dxvk("dxvk2040", "DXVK 2.4", "2.4", "https://github.com/doitsujin/dxvk/releases/download/v2.4/dxvk-2.4.tar.gz"),

		dll("vkd3d", "vkd3d (Vulkan D3D12)", "Hans-Kristian Arntzen", "2024",
			verb.CustomProcedure{Name: "install-vkd3d", Run: archiveDLLs{
				File: remote("https://github.com/HansKristian-Work/vkd3d-proton/releases/download/v2.13/vkd3d-proton-2.13.tar.zst", "vkd3d-proton-2.13.tar.zst", ""),
				Root: "vkd3d-proton-2.13", Dir32: "x86", Dir64: "x64",
				DLLs: []string{"d3d12.dll", "d3d12core.dll"},
			}.install}),
		dll("faudio", "FAudio (XAudio reimplementation)", "Kron4ek", "2020",
			verb.CustomProcedure{Name: "install-faudio", Run: archiveDLLs{
				File: remote("https://github.com/Kron4ek/FAudio-Builds/releases/download/20.07/faudio-20.07.tar.xz", "faudio-20.07.tar.xz", ""),
				Root: "faudio-20.07", Dir32: "x32", Dir64: "x64",
				DLLs: []string{
					"FAudio.dll", "XAudio2_0.dll", "XAudio2_1.dll", "XAudio2_2.dll", "XAudio2_3.dll", "XAudio2_4.dll",
					"XAudio2_5.dll", "XAudio2_6.dll", "XAudio2_7.dll", "XAudio2_8.dll", "XAudio2_9.dll", "xaudio2_9redist.dll",
				},
			}.install}),
		dll("d3dcompiler_47", "MS d3dcompiler_47.dll", "Microsoft", "2019",
			verb.CustomProcedure{Name: "install-d3dcompiler_47", Run: archiveDLLs{
				File:  remote("https://github.com/AlicanAky662/d3dcompiler_47/releases/download/2024.12.08/d3dcompiler_47.zip", "d3dcompiler_47.zip", ""),
				Dir32: "x86", Dir64: "x64",
				DLLs: []string{"d3dcompiler_47.dll"},
			}.install}),

		dll("d3dx9", "MS d3dx9 from DirectX 9 redistributable", "Microsoft", "2010",
			verb.CustomProcedure{Name: "install-d3dx9", Run: redistCabs{File: directX, Match: "d3dx9"}.install}),
		dll("xinput", "Microsoft XInput (Xbox controller support)", "Microsoft", "2010",
			verb.CustomProcedure{Name: "install-xinput", Run: redistCabs{File: directX, Match: "xinput"}.install}),
		dll("xact", "MS XACT Engine", "Microsoft", "2010",
			verb.CustomProcedure{Name: "install-xact", Run: redistCabs{File: directX, Match: "xact", Register: xactEngines}.install}),
		dll("d3dcompiler_43", "MS d3dcompiler_43.dll", "Microsoft", "2010",
			verb.CustomProcedure{Name: "install-d3dcompiler_43", Run: redistCabs{File: directX, Match: "d3dcompiler_43"}.install}),

		dll("physx", "PhysX", "Nvidia", "2021",
			installer("https://us.download.nvidia.com/Windows/9.21.0713/PhysX-9.21.0713-SystemSoftware.exe", "PhysX-9.21.0713-SystemSoftware.exe", "", "/s")),
		dll("xna40", "XNA Framework 4.0", "Microsoft", "2010",
			installer("https://download.microsoft.com/download/A/C/2/AC2C903B-E6E8-42C2-9FD7-BEBAC362A930/xnafx40_redist.msi",
				"xnafx40_redist.msi", "89eb4cae2a051f127e41f223c9bab6ce7fbd8ff2d9bb8e7e5f90f1e0b8d85b2f", "/quiet")),
		dll("xna31", "XNA Framework 3.1", "Microsoft", "2009",
			installer("https://download.microsoft.com/download/D/C/2/DC2F9B1E-1A2D-4CF4-8E28-F3B8B5D71930/xnafx31_redist.msi", "xnafx31_redist.msi", "", "/quiet")),
		dll("openal", "OpenAL Runtime", "Creative", "2023",
			verb.CustomProcedure{Name: "install-openal", Run: zippedInstaller{
				File:       remote("https://www.openal.org/downloads/oalinst.zip", "oalinst.zip", ""),
				Executable: "oalinst.exe",
				Args:       []string{"/s"},
			}.install}),
		dll("gdiplus", "MS GDI+", "Microsoft", "2011",
			installer("https://download.microsoft.com/download/a/a/c/aac39226-8825-44ce-90e3-bf8203e74006/WindowsXP-KB975337-x86-ENU.exe",
				"WindowsXP-KB975337-x86-ENU.exe", "", "/extract", "/quiet")),
		dll("mf", "MS Media Foundation", "Microsoft", "2011",
			patch(regedit.NewPatch().
				AddKey(`HKEY_LOCAL_MACHINE\Software\Microsoft\Windows Media Foundation`).
				AddKey(`HKEY_LOCAL_MACHINE\Software\Microsoft\Windows Media Foundation\HardwareMFT`))),
		dll("quartz", "MS quartz.dll (DirectShow)", "Microsoft", "2011",
			verb.SetDLLOverride{DLL: "quartz", Mode: verb.NativeBuiltin}),
		dll("vb6run", "MS Visual Basic 6 Runtime", "Microsoft", "2004",
			installer("https://download.microsoft.com/download/5/a/d/5ad868a0-8ecd-4bb0-a882-fe53eb7ef348/VB6.0-KB290887-X86.exe", "VB6.0-KB290887-X86.exe", "", "/q")),
	}
}
