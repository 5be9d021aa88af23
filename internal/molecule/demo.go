package molecule

// Demo returns the built-in water and carbon dioxide molecules.
func Demo() []*Molecule {
	water := New("Demo Object (Water)", SourceCustom)
	water.LabelsVisible = true
	water.AddAtom("O", 0, 0, 0)
	water.AddAtom("H", 0.95, 0, 0)
	water.AddAtom("H", -0.95, 0, 0)
	water.AddBond(0, 1)
	water.AddBond(0, 2)

	co2 := New("Demo Object 2 (CO₂)", SourceCustom)
	co2.LabelsVisible = true
	co2.AddAtom("C", 3, 0, 0)
	co2.AddAtom("O", 4.16, 0, 0)
	co2.AddAtom("O", 1.84, 0, 0)
	co2.AddBond(0, 1)
	co2.AddBond(0, 2)

	return []*Molecule{water, co2}
}
