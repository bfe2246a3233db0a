// Package catalog holds the authoritative 119th Congress committee
// structure and party control, sourced from congress.gov. The reconciler
// and the resolver treat these lists as ground truth.
package catalog

// Chamber values used across the pipeline.
const (
	ChamberHouse  = "House"
	ChamberSenate = "Senate"
	ChamberJoint  = "Joint"
)

// Committee is one authoritative committee entry.
type Committee struct {
	Name          string
	Chamber       string
	Type          string
	Subcommittees []string
}

var houseCommittees = []Committee{
	{Name: "Committee on Agriculture", Chamber: ChamberHouse, Type: "Standing", Subcommittees: []string{
		"Biotechnology, Horticulture, and Research",
		"Commodity Exchanges, Energy, and Credit",
		"Conservation and Forestry",
		"General Farm Commodities, Risk Management, and Credit",
		"Livestock and Foreign Agriculture",
	}},
	{Name: "Committee on Appropriations", Chamber: ChamberHouse, Type: "Standing", Subcommittees: []string{
		"Agriculture, Rural Development, Food and Drug Administration",
		"Commerce, Justice, Science, and Related Agencies",
		"Defense",
		"Energy and Water Development",
		"Financial Services and General Government",
		"Homeland Security",
		"Interior, Environment, and Related Agencies",
		"Labor, Health and Human Services, Education",
		"Legislative Branch",
		"Military Construction, Veterans Affairs",
		"State, Foreign Operations, and Related Programs",
		"Transportation, Housing and Urban Development",
	}},
	{Name: "Committee on Armed Services", Chamber: ChamberHouse, Type: "Standing", Subcommittees: []string{
		"Cyber, Information Technologies, and Innovation",
		"Intelligence and Special Operations",
		"Military Personnel",
		"Readiness",
		"Seapower and Projection Forces",
		"Strategic Forces",
		"Tactical Air and Land Forces",
	}},
	{Name: "Committee on the Budget", Chamber: ChamberHouse, Type: "Standing"},
	{Name: "Committee on Education and the Workforce", Chamber: ChamberHouse, Type: "Standing", Subcommittees: []string{
		"Early Childhood, Elementary, and Secondary Education",
		"Health, Employment, Labor, and Pensions",
		"Higher Education and Workforce Development",
		"Workforce Protections",
	}},
	{Name: "Committee on Energy and Commerce", Chamber: ChamberHouse, Type: "Standing", Subcommittees: []string{
		"Communications and Technology",
		"Energy, Climate, and Grid Security",
		"Environment, Manufacturing, and Critical Materials",
		"Health",
		"Innovation, Data, and Commerce",
		"Oversight and Investigations",
	}},
	{Name: "Committee on Ethics", Chamber: ChamberHouse, Type: "Standing"},
	{Name: "Committee on Financial Services", Chamber: ChamberHouse, Type: "Standing", Subcommittees: []string{
		"Capital Markets",
		"Digital Assets, Financial Technology and Inclusion",
		"Financial Institutions and Monetary Policy",
		"Housing and Insurance",
		"National Security, Illicit Finance, and International Financial Institutions",
		"Oversight and Investigations",
	}},
	{Name: "Committee on Foreign Affairs", Chamber: ChamberHouse, Type: "Standing", Subcommittees: []string{
		"Africa",
		"East Asia and the Pacific",
		"Europe",
		"Global Health, Global Human Rights, and International Organizations",
		"Indo-Pacific",
		"Middle East, North Africa and Central Asia",
		"Oversight and Accountability",
		"South and Central Asia",
		"Western Hemisphere",
	}},
	{Name: "Committee on Homeland Security", Chamber: ChamberHouse, Type: "Standing", Subcommittees: []string{
		"Border Security and Enforcement",
		"Counterterrorism, Law Enforcement, and Intelligence",
		"Cybersecurity and Infrastructure Protection",
		"Emergency Management and Technology",
		"Oversight, Investigations, and Accountability",
		"Transportation and Maritime Security",
	}},
	{Name: "Committee on House Administration", Chamber: ChamberHouse, Type: "Standing"},
	{Name: "Committee on the Judiciary", Chamber: ChamberHouse, Type: "Standing", Subcommittees: []string{
		"Courts, Intellectual Property, and the Internet",
		"Crime and Federal Government Surveillance",
		"Immigration Integrity, Security, and Enforcement",
		"Responsiveness and Accountability to Oversight",
		"The Constitution and Limited Government",
	}},
	{Name: "Committee on Natural Resources", Chamber: ChamberHouse, Type: "Standing", Subcommittees: []string{
		"Energy and Mineral Resources",
		"Federal Lands",
		"Indian and Insular Affairs",
		"Oversight and Investigations",
		"Water, Wildlife and Fisheries",
	}},
	{Name: "Committee on Oversight and Accountability", Chamber: ChamberHouse, Type: "Standing", Subcommittees: []string{
		"Cybersecurity, Information Technology, and Government Innovation",
		"Economic Growth, Energy Policy, and Regulatory Affairs",
		"Government Operations and the Federal Workforce",
		"Health Care and Financial Services",
		"National Security, the Border, and Foreign Affairs",
	}},
	{Name: "Committee on Rules", Chamber: ChamberHouse, Type: "Standing"},
	{Name: "Committee on Science, Space, and Technology", Chamber: ChamberHouse, Type: "Standing", Subcommittees: []string{
		"Energy",
		"Environment",
		"Investigations and Oversight",
		"Research and Technology",
		"Space and Aeronautics",
	}},
	{Name: "Committee on Small Business", Chamber: ChamberHouse, Type: "Standing", Subcommittees: []string{
		"Contracting and Infrastructure",
		"Economic Growth, Tax, and Capital Access",
		"Innovation, Entrepreneurship, and Workforce Development",
		"Oversight, Investigations, and Regulations",
		"Rural Development, Energy, and Supply Chains",
	}},
	{Name: "Committee on Transportation and Infrastructure", Chamber: ChamberHouse, Type: "Standing", Subcommittees: []string{
		"Aviation",
		"Coast Guard and Maritime Transportation",
		"Economic Development, Public Buildings, and Emergency Management",
		"Highways and Transit",
		"Railroads, Pipelines, and Hazardous Materials",
		"Water Resources and Environment",
	}},
	{Name: "Committee on Veterans' Affairs", Chamber: ChamberHouse, Type: "Standing", Subcommittees: []string{
		"Disability Assistance and Memorial Affairs",
		"Economic Opportunity",
		"Health",
		"Oversight and Investigations",
		"Technology Modernization",
	}},
	{Name: "Committee on Ways and Means", Chamber: ChamberHouse, Type: "Standing", Subcommittees: []string{
		"Health",
		"Oversight",
		"Social Security",
		"Tax",
		"Trade",
		"Work and Welfare",
	}},
}

var senateCommittees = []Committee{
	{Name: "Committee on Agriculture, Nutrition, and Forestry", Chamber: ChamberSenate, Type: "Standing"},
	{Name: "Committee on Appropriations", Chamber: ChamberSenate, Type: "Standing"},
	{Name: "Committee on Armed Services", Chamber: ChamberSenate, Type: "Standing"},
	{Name: "Committee on Banking, Housing, and Urban Affairs", Chamber: ChamberSenate, Type: "Standing"},
	{Name: "Committee on the Budget", Chamber: ChamberSenate, Type: "Standing"},
	{Name: "Committee on Commerce, Science, and Transportation", Chamber: ChamberSenate, Type: "Standing"},
	{Name: "Committee on Energy and Natural Resources", Chamber: ChamberSenate, Type: "Standing"},
	{Name: "Committee on Environment and Public Works", Chamber: ChamberSenate, Type: "Standing"},
	{Name: "Committee on Finance", Chamber: ChamberSenate, Type: "Standing"},
	{Name: "Committee on Foreign Relations", Chamber: ChamberSenate, Type: "Standing"},
	{Name: "Committee on Health, Education, Labor and Pensions", Chamber: ChamberSenate, Type: "Standing"},
	{Name: "Committee on Homeland Security and Governmental Affairs", Chamber: ChamberSenate, Type: "Standing"},
	{Name: "Committee on the Judiciary", Chamber: ChamberSenate, Type: "Standing"},
	{Name: "Committee on Rules and Administration", Chamber: ChamberSenate, Type: "Standing"},
	{Name: "Committee on Small Business and Entrepreneurship", Chamber: ChamberSenate, Type: "Standing"},
	{Name: "Committee on Veterans' Affairs", Chamber: ChamberSenate, Type: "Standing"},
	{Name: "Select Committee on Intelligence", Chamber: ChamberSenate, Type: "Select"},
	{Name: "Select Committee on Ethics", Chamber: ChamberSenate, Type: "Select"},
	{Name: "Special Committee on Aging", Chamber: ChamberSenate, Type: "Special"},
	{Name: "Committee on Indian Affairs", Chamber: ChamberSenate, Type: "Other"},
}

var jointCommittees = []Committee{
	{Name: "Joint Committee on the Library", Chamber: ChamberJoint, Type: "Joint"},
	{Name: "Joint Committee on Printing", Chamber: ChamberJoint, Type: "Joint"},
	{Name: "Joint Committee on Taxation", Chamber: ChamberJoint, Type: "Joint"},
	{Name: "Joint Economic Committee", Chamber: ChamberJoint, Type: "Joint"},
}

// partyControl maps chamber to majority/minority for the 119th Congress.
var partyControl = map[string][2]string{
	ChamberHouse:  {"Republican", "Democratic"},
	ChamberSenate: {"Republican", "Democratic"},
}

// Committees returns the authoritative committees for a chamber.
// An empty chamber returns every committee including joint ones.
func Committees(chamber string) []Committee {
	switch chamber {
	case ChamberHouse:
		return houseCommittees
	case ChamberSenate:
		return senateCommittees
	case ChamberJoint:
		return jointCommittees
	case "":
		all := make([]Committee, 0, len(houseCommittees)+len(senateCommittees)+len(jointCommittees))
		all = append(all, houseCommittees...)
		all = append(all, senateCommittees...)
		all = append(all, jointCommittees...)
		return all
	}
	return nil
}

// Names returns the committee names for a chamber.
func Names(chamber string) []string {
	committees := Committees(chamber)
	names := make([]string, 0, len(committees))
	for _, c := range committees {
		names = append(names, c.Name)
	}
	return names
}

// Contains reports whether (name, chamber) is an authoritative committee.
func Contains(name, chamber string) bool {
	for _, c := range Committees(chamber) {
		if c.Name == name {
			return true
		}
	}
	return false
}

// Lookup returns the catalog entry for (name, chamber).
func Lookup(name, chamber string) (Committee, bool) {
	for _, c := range Committees(chamber) {
		if c.Name == name {
			return c, true
		}
	}
	return Committee{}, false
}

// MajorityParty returns the majority party for a chamber, empty for joint.
func MajorityParty(chamber string) string {
	if pc, ok := partyControl[chamber]; ok {
		return pc[0]
	}
	return ""
}

// MinorityParty returns the minority party for a chamber, empty for joint.
func MinorityParty(chamber string) string {
	if pc, ok := partyControl[chamber]; ok {
		return pc[1]
	}
	return ""
}
