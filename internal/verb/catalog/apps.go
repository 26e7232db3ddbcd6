// SPDX-License-Identifier: MPL-2.0

package catalog

import "github.com/pfxkit/pfxkit/internal/verb"

func apps() []verb.Verb {
	return []verb.Verb{
		verb.New("7zip", verb.Application, "7-Zip", "Igor Pavlov", "2024").With(
			installer("https://www.7-zip.org/a/7z2409-x64.exe", "7z2409-x64.exe", "", "/S")),
		verb.New("vlc", verb.Application, "VLC media player", "VideoLAN", "2015").With(
			installer("https://get.videolan.org/vlc/3.0.21/win64/vlc-3.0.21-win64.exe", "vlc-3.0.21-win64.exe", "", "/S")),
		verb.New("winrar", verb.Application, "WinRAR", "RARLAB", "1993").With(
			installer("https://www.rarlab.com/rar/winrar-x64-701.exe", "winrar-x64-701.exe", "", "/s")),
	}
}
