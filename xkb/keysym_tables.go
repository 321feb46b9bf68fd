package xkb

// Keysym names of printable ASCII punctuation, indexed by code point.
// Letters and digits are their own names.
var asciiNames = [...]string{
	0x20: "space",
	0x21: "exclam",
	0x22: "quotedbl",
	0x23: "numbersign",
	0x24: "dollar",
	0x25: "percent",
	0x26: "ampersand",
	0x27: "apostrophe",
	0x28: "parenleft",
	0x29: "parenright",
	0x2a: "asterisk",
	0x2b: "plus",
	0x2c: "comma",
	0x2d: "minus",
	0x2e: "period",
	0x2f: "slash",
	0x3a: "colon",
	0x3b: "semicolon",
	0x3c: "less",
	0x3d: "equal",
	0x3e: "greater",
	0x3f: "question",
	0x40: "at",
	0x5b: "bracketleft",
	0x5c: "backslash",
	0x5d: "bracketright",
	0x5e: "asciicircum",
	0x5f: "underscore",
	0x60: "grave",
	0x7b: "braceleft",
	0x7c: "bar",
	0x7d: "braceright",
	0x7e: "asciitilde",
}

// Keysym names of Latin-1 0xa0-0xff, in code point order.
var latin1Names = [...]string{
	"nobreakspace", "exclamdown", "cent", "sterling", "currency", "yen", "brokenbar",
	"section", "diaeresis", "copyright", "ordfeminine", "guillemotleft", "notsign", "hyphen",
	"registered", "macron", "degree", "plusminus", "twosuperior", "threesuperior", "acute",
	"mu", "paragraph", "periodcentered", "cedilla", "onesuperior", "masculine",
	"guillemotright", "onequarter", "onehalf", "threequarters", "questiondown", "Agrave",
	"Aacute", "Acircumflex", "Atilde", "Adiaeresis", "Aring", "AE", "Ccedilla", "Egrave",
	"Eacute", "Ecircumflex", "Ediaeresis", "Igrave", "Iacute", "Icircumflex", "Idiaeresis",
	"ETH", "Ntilde", "Ograve", "Oacute", "Ocircumflex", "Otilde", "Odiaeresis", "multiply",
	"Oslash", "Ugrave", "Uacute", "Ucircumflex", "Udiaeresis", "Yacute", "THORN", "ssharp",
	"agrave", "aacute", "acircumflex", "atilde", "adiaeresis", "aring", "ae", "ccedilla",
	"egrave", "eacute", "ecircumflex", "ediaeresis", "igrave", "iacute", "icircumflex",
	"idiaeresis", "eth", "ntilde", "ograve", "oacute", "ocircumflex", "otilde", "odiaeresis",
	"division", "oslash", "ugrave", "uacute", "ucircumflex", "udiaeresis", "yacute", "thorn",
	"ydiaeresis",
}

// Lower case Cyrillic keysym suffixes. Upper case keysyms spell the suffix
// in capitals.
var cyrillicNames = map[string]rune{
	"a": 'а', "be": 'б', "ve": 'в', "ghe": 'г', "de": 'д', "ie": 'е', "io": 'ё',
	"zhe": 'ж', "ze": 'з', "i": 'и', "shorti": 'й', "ka": 'к', "el": 'л', "em": 'м',
	"en": 'н', "o": 'о', "pe": 'п', "er": 'р', "es": 'с', "te": 'т', "u": 'у',
	"ef": 'ф', "ha": 'х', "tse": 'ц', "che": 'ч', "sha": 'ш', "shcha": 'щ',
	"hardsign": 'ъ', "yeru": 'ы', "softsign": 'ь', "e": 'э', "yu": 'ю', "ya": 'я',
	"je": 'ј', "lje": 'љ', "nje": 'њ', "dzhe": 'џ',
}

var ukrainianNames = map[string]rune{
	"i": 'і', "yi": 'ї', "ie": 'є', "ghe_with_upturn": 'ґ',
}

var greekNames = map[string]rune{
	"alpha": 'α', "beta": 'β', "gamma": 'γ', "delta": 'δ', "epsilon": 'ε', "zeta": 'ζ',
	"eta": 'η', "theta": 'θ', "iota": 'ι', "kappa": 'κ', "lamda": 'λ', "lambda": 'λ',
	"mu": 'μ', "nu": 'ν', "xi": 'ξ', "omicron": 'ο', "pi": 'π', "rho": 'ρ', "sigma": 'σ',
	"tau": 'τ', "upsilon": 'υ', "phi": 'φ', "chi": 'χ', "psi": 'ψ', "omega": 'ω',
}

// Dead keys resolve to their spacing form, as a key cap would show them.
var deadNames = map[string]rune{
	"dead_grave":       '`',
	"dead_acute":       '´',
	"dead_circumflex":  '^',
	"dead_tilde":       '~',
	"dead_perispomeni": '~',
	"dead_macron":      '¯',
	"dead_breve":       '˘',
	"dead_abovedot":    '˙',
	"dead_diaeresis":   '¨',
	"dead_abovering":   '˚',
	"dead_doubleacute": '˝',
	"dead_caron":       'ˇ',
	"dead_cedilla":     '¸',
	"dead_ogonek":      '˛',
	"dead_iota":        'ͺ',
	"dead_currency":    '¤',
}

var keypadNames = map[string]rune{
	"KP_Space": ' ', "KP_Equal": '=', "KP_Multiply": '*', "KP_Add": '+',
	"KP_Separator": ',', "KP_Subtract": '-', "KP_Decimal": '.', "KP_Divide": '/',
	"KP_0": '0', "KP_1": '1', "KP_2": '2', "KP_3": '3', "KP_4": '4',
	"KP_5": '5', "KP_6": '6', "KP_7": '7', "KP_8": '8', "KP_9": '9',
}

var miscNames = map[string]rune{
	"guillemetleft": '«', "guillemetright": '»', "ordmasculine": 'º',
	"Ooblique": 'Ø', "ooblique": 'ø', "Eth": 'Ð', "Thorn": 'Þ',

	"EuroSign": '€', "oe": 'œ', "OE": 'Œ', "Ydiaeresis": 'Ÿ',
	"idotless": 'ı', "Iabovedot": 'İ', "lstroke": 'ł', "Lstroke": 'Ł',
	"scaron": 'š', "Scaron": 'Š', "zcaron": 'ž', "Zcaron": 'Ž',
	"ccaron": 'č', "Ccaron": 'Č', "ecaron": 'ě', "Ecaron": 'Ě',
	"rcaron": 'ř', "Rcaron": 'Ř', "uring": 'ů', "Uring": 'Ů',
	"dcaron": 'ď', "Dcaron": 'Ď', "tcaron": 'ť', "Tcaron": 'Ť',
	"ncaron": 'ň', "Ncaron": 'Ň', "aogonek": 'ą', "Aogonek": 'Ą',
	"eogonek": 'ę', "Eogonek": 'Ę', "cacute": 'ć', "Cacute": 'Ć',
	"nacute": 'ń', "Nacute": 'Ń', "sacute": 'ś', "Sacute": 'Ś',
	"zacute": 'ź', "Zacute": 'Ź', "zabovedot": 'ż', "Zabovedot": 'Ż',
	"gbreve": 'ğ', "Gbreve": 'Ğ', "scedilla": 'ş', "Scedilla": 'Ş',
	"abreve": 'ă', "Abreve": 'Ă', "odoubleacute": 'ő', "Odoubleacute": 'Ő',
	"udoubleacute": 'ű', "Udoubleacute": 'Ű', "dstroke": 'đ', "Dstroke": 'Đ',

	"ellipsis": '…', "emdash": '—', "endash": '–',
	"leftsinglequotemark": '‘', "rightsinglequotemark": '’', "singlelowquotemark": '‚',
	"leftdoublequotemark": '“', "rightdoublequotemark": '”', "doublelowquotemark": '„',
	"dagger": '†', "doubledagger": '‡', "trademark": '™', "enfilledcircbullet": '•',
	"permille": '‰', "leftarrow": '←', "uparrow": '↑', "rightarrow": '→', "downarrow": '↓',
	"notequal": '≠', "lessthanequal": '≤', "greaterthanequal": '≥', "infinity": '∞',
	"numerosign": '№', "Greek_finalsmallsigma": 'ς',
}
