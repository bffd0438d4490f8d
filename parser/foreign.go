package parser

// svgTagNameAdjustments rewrites lowercased SVG tag names back to their
// camelCased forms.
var svgTagNameAdjustments = map[string]string{
	"altglyph":            "altGlyph",
	"altglyphdef":         "altGlyphDef",
	"altglyphitem":        "altGlyphItem",
	"animatecolor":        "animateColor",
	"animatemotion":       "animateMotion",
	"animatetransform":    "animateTransform",
	"clippath":            "clipPath",
	"feblend":             "feBlend",
	"fecolormatrix":       "feColorMatrix",
	"fecomponenttransfer": "feComponentTransfer",
	"fecomposite":         "feComposite",
	"feconvolvematrix":    "feConvolveMatrix",
	"fediffuselighting":   "feDiffuseLighting",
	"fedisplacementmap":   "feDisplacementMap",
	"fedistantlight":      "feDistantLight",
	"fedropshadow":        "feDropShadow",
	"feflood":             "feFlood",
	"fefunca":             "feFuncA",
	"fefuncb":             "feFuncB",
	"fefuncg":             "feFuncG",
	"fefuncr":             "feFuncR",
	"fegaussianblur":      "feGaussianBlur",
	"feimage":             "feImage",
	"femerge":             "feMerge",
	"femergenode":         "feMergeNode",
	"femorphology":        "feMorphology",
	"feoffset":            "feOffset",
	"fepointlight":        "fePointLight",
	"fespecularlighting":  "feSpecularLighting",
	"fespotlight":         "feSpotLight",
	"fetile":              "feTile",
	"feturbulence":        "feTurbulence",
	"foreignobject":       "foreignObject",
	"glyphref":            "glyphRef",
	"lineargradient":      "linearGradient",
	"radialgradient":      "radialGradient",
	"textpath":            "textPath",
}

var svgAttrAdjustments = map[string]string{
	"attributename":       "attributeName",
	"attributetype":       "attributeType",
	"basefrequency":       "baseFrequency",
	"baseprofile":         "baseProfile",
	"calcmode":            "calcMode",
	"clippathunits":       "clipPathUnits",
	"diffuseconstant":     "diffuseConstant",
	"edgemode":            "edgeMode",
	"filterunits":         "filterUnits",
	"glyphref":            "glyphRef",
	"gradienttransform":   "gradientTransform",
	"gradientunits":       "gradientUnits",
	"kernelmatrix":        "kernelMatrix",
	"kernelunitlength":    "kernelUnitLength",
	"keypoints":           "keyPoints",
	"keysplines":          "keySplines",
	"keytimes":            "keyTimes",
	"lengthadjust":        "lengthAdjust",
	"limitingconeangle":   "limitingConeAngle",
	"markerheight":        "markerHeight",
	"markerunits":         "markerUnits",
	"markerwidth":         "markerWidth",
	"maskcontentunits":    "maskContentUnits",
	"maskunits":           "maskUnits",
	"numoctaves":          "numOctaves",
	"pathlength":          "pathLength",
	"patterncontentunits": "patternContentUnits",
	"patterntransform":    "patternTransform",
	"patternunits":        "patternUnits",
	"pointsatx":           "pointsAtX",
	"pointsaty":           "pointsAtY",
	"pointsatz":           "pointsAtZ",
	"preservealpha":       "preserveAlpha",
	"preserveaspectratio": "preserveAspectRatio",
	"primitiveunits":      "primitiveUnits",
	"refx":                "refX",
	"refy":                "refY",
	"repeatcount":         "repeatCount",
	"repeatdur":           "repeatDur",
	"requiredextensions":  "requiredExtensions",
	"requiredfeatures":    "requiredFeatures",
	"specularconstant":    "specularConstant",
	"specularexponent":    "specularExponent",
	"spreadmethod":        "spreadMethod",
	"startoffset":         "startOffset",
	"stddeviation":        "stdDeviation",
	"stitchtiles":         "stitchTiles",
	"surfacescale":        "surfaceScale",
	"systemlanguage":      "systemLanguage",
	"tablevalues":         "tableValues",
	"targetx":             "targetX",
	"targety":             "targetY",
	"textlength":          "textLength",
	"viewbox":             "viewBox",
	"viewtarget":          "viewTarget",
	"xchannelselector":    "xChannelSelector",
	"ychannelselector":    "yChannelSelector",
	"zoomandpan":          "zoomAndPan",
}

// foreignAttrAdjustments maps the xlink/xml/xmlns attribute spellings to
// their namespaced qualified names.
var foreignAttrAdjustments = map[string]QualName{
	"xlink:actuate": {Prefix: "xlink", Namespace: NamespaceXLink, Local: "actuate"},
	"xlink:arcrole": {Prefix: "xlink", Namespace: NamespaceXLink, Local: "arcrole"},
	"xlink:href":    {Prefix: "xlink", Namespace: NamespaceXLink, Local: "href"},
	"xlink:role":    {Prefix: "xlink", Namespace: NamespaceXLink, Local: "role"},
	"xlink:show":    {Prefix: "xlink", Namespace: NamespaceXLink, Local: "show"},
	"xlink:title":   {Prefix: "xlink", Namespace: NamespaceXLink, Local: "title"},
	"xlink:type":    {Prefix: "xlink", Namespace: NamespaceXLink, Local: "type"},
	"xml:lang":      {Prefix: "xml", Namespace: NamespaceXML, Local: "lang"},
	"xml:space":     {Prefix: "xml", Namespace: NamespaceXML, Local: "space"},
	"xmlns":         {Namespace: NamespaceXMLNS, Local: "xmlns"},
	"xmlns:xlink":   {Prefix: "xmlns", Namespace: NamespaceXMLNS, Local: "xlink"},
}

// breakoutTags are the HTML start tags that close foreign content and hand
// the token back to HTML processing.
var breakoutTags = map[string]bool{
	"b":          true,
	"big":        true,
	"blockquote": true,
	"body":       true,
	"br":         true,
	"center":     true,
	"code":       true,
	"dd":         true,
	"div":        true,
	"dl":         true,
	"dt":         true,
	"em":         true,
	"embed":      true,
	"h1":         true,
	"h2":         true,
	"h3":         true,
	"h4":         true,
	"h5":         true,
	"h6":         true,
	"head":       true,
	"hr":         true,
	"i":          true,
	"img":        true,
	"li":         true,
	"listing":    true,
	"menu":       true,
	"meta":       true,
	"nobr":       true,
	"ol":         true,
	"p":          true,
	"pre":        true,
	"ruby":       true,
	"s":          true,
	"small":      true,
	"span":       true,
	"strong":     true,
	"strike":     true,
	"sub":        true,
	"sup":        true,
	"table":      true,
	"tt":         true,
	"u":          true,
	"ul":         true,
	"var":        true,
}

// mathMLTextIntegrationPoints hold HTML-ish content inside MathML.
var mathMLTextIntegrationPoints = map[string]bool{
	"mi":    true,
	"mo":    true,
	"mn":    true,
	"ms":    true,
	"mtext": true,
}

// svgHTMLIntegrationPoints hold full HTML content inside SVG.
var svgHTMLIntegrationPoints = map[string]bool{
	"foreignObject": true,
	"desc":          true,
	"title":         true,
}

func adjustSVGTagName(name string) string {
	if adjusted, ok := svgTagNameAdjustments[name]; ok {
		return adjusted
	}
	return name
}

func adjustSVGAttrs(attrs []Attribute) {
	for i := range attrs {
		if adjusted, ok := svgAttrAdjustments[attrs[i].Name.Local]; ok {
			attrs[i].Name.Local = adjusted
		}
	}
}

func adjustMathMLAttrs(attrs []Attribute) {
	for i := range attrs {
		if attrs[i].Name.Local == "definitionurl" {
			attrs[i].Name.Local = "definitionURL"
		}
	}
}

func adjustForeignAttrs(attrs []Attribute) {
	for i := range attrs {
		if adjusted, ok := foreignAttrAdjustments[attrs[i].Name.Local]; ok {
			attrs[i].Name = adjusted
		}
	}
}

// isBreakoutTag reports whether a start tag in foreign content must break out
// to HTML processing. font only breaks out when it carries one of the
// HTML-only presentational attributes.
func isBreakoutTag(token *Token) bool {
	if breakoutTags[token.TagName] {
		return true
	}
	if token.TagName != "font" {
		return false
	}
	for _, name := range []string{"color", "face", "size"} {
		if _, ok := token.attr(name); ok {
			return true
		}
	}
	return false
}
