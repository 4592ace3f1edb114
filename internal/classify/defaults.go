package classify

// DefaultRules returns the built-in category table and keyword sets.
// The table is ordered; the substring pass uses first-declared-wins.
func DefaultRules() Rules {
	return Rules{
		Default: DefaultCategory,
		Table: []TableEntry{
			// Beading strategies
			{"BeadingStrategy", "BEADING_STRATEGY"},
			{"DistributedBeadingStrategy", "BEADING_STRATEGY"},
			{"RedistributeBeadingStrategy", "BEADING_STRATEGY"},
			{"WideningBeadingStrategy", "BEADING_STRATEGY"},
			{"LimitedBeadingStrategy", "BEADING_STRATEGY"},
			{"OuterWallInsetBeadingStrategy", "BEADING_STRATEGY"},
			{"FlowCompensatedBeadingStrategy", "FLOW_COMPENSATION"},

			// Skeletal trapezoidation
			{"SkeletalTrapezoidation", "SKELETAL_TRAPEZOIDATION"},
			{"SkeletalTrapezoidationGraph", "SKELETAL_TRAPEZOIDATION"},

			// Wall computation
			{"WallToolPaths", "WALL_COMPUTATION"},
			{"WallsComputation", "WALL_COMPUTATION"},

			// Infill
			{"infill", "INFILL"},
			{"SierpinskiFill", "INFILL"},
			{"ImageBasedDensityProvider", "INFILL"},

			// Support
			{"support", "SUPPORT"},
			{"TreeSupport", "TREE_SUPPORT"},
			{"TreeSupportTipGenerator", "TREE_SUPPORT"},
			{"TreeModelVolumes", "TREE_SUPPORT"},
			{"TreeSupportUtils", "TREE_SUPPORT"},

			// Path planning
			{"LayerPlan", "LAYER_PLAN"},
			{"LayerPlanBuffer", "LAYER_PLAN"},
			{"PathOrderOptimizer", "PATH_PLANNING"},

			// Geometry
			{"mesh", "MESH_PROCESSING"},
			{"slicer", "SLICING"},
			{"Slice", "SLICING"},
			{"VoronoiUtils", "GEOMETRY"},
			{"SVG", "GEOMETRY"},
			{"ExtrusionSegment", "GEOMETRY"},

			// Settings
			{"Settings", "SETTINGS"},
			{"AdaptiveLayerHeights", "ADAPTIVE_LAYERS"},
			{"HeightParameterGraph", "SETTINGS"},
			{"FlowTempGraph", "SETTINGS"},
			{"ZSeamConfig", "SEAM_PLACEMENT"},

			// G-code generation
			{"FffGcodeWriter", "GCODE_GENERATION"},
			{"gcodeExport", "GCODE_EXPORT"},

			// Communication
			{"CommandLine", "COMMUNICATION"},
			{"ArcusCommunication", "COMMUNICATION"},
			{"EmscriptenCommunication", "COMMUNICATION"},
			{"Listener", "COMMUNICATION"},

			// Plugins
			{"pluginproxy", "PLUGINS"},

			// Performance and progress
			{"Progress", "PROGRESS"},
			{"gettime", "PERFORMANCE"},

			// Everything else
			{"Application", "DEVELOPMENT"},
			{"main", "DEVELOPMENT"},
			{"MeshGroup", "MESH_PROCESSING"},
			{"Scene", "DEVELOPMENT"},
			{"Preheat", "DEVELOPMENT"},
			{"PrimeTower", "DEVELOPMENT"},
			{"raft", "DEVELOPMENT"},
			{"SkirtBrim", "DEVELOPMENT"},
			{"channel", "COMMUNICATION"},
		},
		DebugKeywords: []string{
			"debug", "verbose",
			"compute", "process", "generate", "check", "verify",
			"start", "end", "finish", "complete",
			"parameter", "param", "setting",
			"algorithm", "strategy",
			"geometry", "polygon", "mesh",
			"path", "route", "travel",
			"layer", "slice",
			"width", "bead",
			"flow", "extrusion",
			"compensation", "adjust",
		},
		InfoKeywords: []string{
			"load", "save", "read", "write", "export",
			"start", "init", "config", "setup",
			"progress", "percent", "%",
			"complete", "success", "done",
			"time", "duration", "elapsed",
			"statistics", "stats", "count",
			"mode", "enabled", "disabled",
		},
	}
}
