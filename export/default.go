package export

var (
	// defaultSurface serves boundary entry points that cannot carry a context.
	defaultSurface *Surface

	placeholder = New(nilCore{})
)

// SetDefault installs s as the surface used by Default.
func SetDefault(s *Surface) {
	defaultSurface = s
}

// Default returns the surface installed with SetDefault. Before that it
// returns a surface with no core, which is never ready and reports
// VariantUnknown.
func Default() *Surface {
	if defaultSurface == nil {
		return placeholder
	}
	return defaultSurface
}
