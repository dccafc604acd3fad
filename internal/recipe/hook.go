package recipe

// Hook names one lifecycle step the driver can invoke.
type Hook string

const (
	HookConfigureDependencies Hook = "configure-dependencies"
	HookResolveVersion        Hook = "resolve-version"
	HookGenerateToolchain     Hook = "generate-toolchain"
	HookGenerateDepsGraph     Hook = "generate-dependency-graph"
	HookBuild                 Hook = "build"
	HookPackage               Hook = "package"
	HookComputePackageID      Hook = "compute-package-identity"
	HookDeclarePackageInfo    Hook = "declare-package-info"
)

// Hooks returns every hook in conventional order.
func Hooks() []Hook {
	return []Hook{
		HookConfigureDependencies,
		HookResolveVersion,
		HookGenerateToolchain,
		HookGenerateDepsGraph,
		HookBuild,
		HookPackage,
		HookComputePackageID,
		HookDeclarePackageInfo,
	}
}

// Valid reports whether h is a known hook.
func (h Hook) Valid() bool {
	for _, k := range Hooks() {
		if h == k {
			return true
		}
	}
	return false
}

func (h Hook) String() string {
	return string(h)
}
