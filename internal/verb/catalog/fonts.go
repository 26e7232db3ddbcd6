// SPDX-License-Identifier: MPL-2.0

package catalog

import "github.com/pfxkit/pfxkit/internal/verb"

const corefontsBase = "https://github.com/pushcx/corefonts/raw/master/"

type coreFont struct {
	verb, title, archive, sha256, filter, file, name string
}

var coreFonts = []coreFont{
	{"andale", "MS Andale Mono", "andale32.exe", "0524fe42951adc3a7eb870e32f0920313c71f170c859b5f770d82b4ee111e970", "*.TTF", "andalemo.ttf", "Andale Mono"},
	{"arial", "MS Arial", "arial32.exe", "85297a4d146e9c87ac6f74822734bdee5f4b2a722d7eaa584b7f2cbf76f478f6", "*.TTF", "arial.ttf", "Arial"},
	{"comicsans", "MS Comic Sans", "comic32.exe", "9c6df3feefde26d4e41d4a4fe5db2a89f9123a772594d7f59afd062625cd204e", "*.TTF", "comic.ttf", "Comic Sans MS"},
	{"courier", "MS Courier New", "courie32.exe", "bb511d861655dde879ae552eb86b134d6fae67cb58502e6ff73ec5d9151f3384", "*.ttf", "cour.ttf", "Courier New"},
	{"georgia", "MS Georgia", "georgi32.exe", "2c2c7dcda6606ea5cf08918fb7cd3f3359e9e84338dc690013f20cd42e930301", "*.TTF", "georgia.ttf", "Georgia"},
	{"impact", "MS Impact", "impact32.exe", "6061ef3b7401d9642f5dfdb5f2b376aa14663f6275e60a51207ad4facf2fccfb", "*.TTF", "impact.ttf", "Impact"},
	{"times", "MS Times New Roman", "times32.exe", "db56595ec6ef5d3de5c24994f001f03b2a13e37cee27bc25c58f6f43e8f807ab", "*.TTF", "times.ttf", "Times New Roman"},
	{"trebuchet", "MS Trebuchet", "trebuc32.exe", "5a690d9bb8510be1b8b4c025b7f34b90e9e2c881c05c8b8a5a3052525b8a4c5a", "*.TTF", "trebuc.ttf", "Trebuchet MS"},
	{"verdana", "MS Verdana", "verdan32.exe", "c1cb61255e363166794e47664e2f21af8e3a26cb6346eb8d2ae2fa85dd5aad96", "*.TTF", "verdana.ttf", "Verdana"},
	{"webdings", "MS Webdings", "webdin32.exe", "64595b5abc1080fba8610c5c34fab5863408e806aafe84653ca8575f82ca9ab6", "*.TTF", "webdings.ttf", "Webdings"},
}

const (
	ieLanguagePack       = "https://downloads.sourceforge.net/corefonts/OldFiles/IELPKTH.CAB"
	ieLanguagePackSHA256 = "c1be3fb8f0042570be76ec6daa03a99142c88367c1bc810240b85827c715961a"
)

func fontVerb(name, title, year string, file verb.RemoteFile, filter, fontFile, fontName string) verb.Verb {
	return verb.New(name, verb.Font, title, "Microsoft", year).With(
		verb.ExtractFiltered{File: file, Dest: fontsDir, Filter: filter},
		verb.RegisterFont{File: fontFile, Name: fontName},
	)
}

func fonts() []verb.Verb {
	bundle := verb.New("corefonts", verb.Font, "MS Core Fonts", "Microsoft", "2008")
	var out []verb.Verb
	for _, f := range coreFonts {
		bundle = bundle.With(call(f.verb))
		out = append(out, fontVerb(f.verb, f.title, "2008",
			remote(corefontsBase+f.archive, f.archive, f.sha256), f.filter, f.file, f.name))
	}
	out = append([]verb.Verb{bundle}, out...)

	ie := remote(ieLanguagePack, "IELPKTH.CAB", ieLanguagePackSHA256)
	out = append(out,
		fontVerb("tahoma", "MS Tahoma", "1999", ie, "*.TTF", "tahoma.ttf", "Tahoma"),
		fontVerb("lucida", "MS Lucida Console", "1998", ie, "lucon.ttf", "lucon.ttf", "Lucida Console"),
	)
	return out
}
