// Package nav maps roles and tab selections to renderable views and carries
// one-shot quick-action signals between views.
package nav

import (
	"github.com/Logesh-Devops/caconnect-clientui/pkg/models"
)

// Tab identifies a top-level view.
type Tab string

const (
	TabDashboard        Tab = "dashboard"
	TabFinance          Tab = "finance"
	TabDocuments        Tab = "documents"
	TabBeneficiaries    Tab = "beneficiaries"
	TabOrganisationBank Tab = "organisation-bank"
	TabProfile          Tab = "profile"
	TabTasks            Tab = "tasks"
)

// View is what the router resolves a (role, state) pair to.
type View string

const (
	ViewLoading          View = "loading"
	ViewDashboard        View = View(TabDashboard)
	ViewFinance          View = View(TabFinance)
	ViewDocuments        View = View(TabDocuments)
	ViewBeneficiaries    View = View(TabBeneficiaries)
	ViewOrganisationBank View = View(TabOrganisationBank)
	ViewProfile          View = View(TabProfile)
	ViewTasks            View = View(TabTasks)
)

// QuickAction is a one-shot deferred intent that pre-arms a target view.
type QuickAction string

const (
	ActionAddBeneficiary      QuickAction = "add-beneficiary"
	ActionAddInvoice          QuickAction = "add-invoice"
	ActionAddVoucher          QuickAction = "add-voucher"
	ActionAddOrganisationBank QuickAction = "add-organisation-bank"
)

// Capability describes which tabs a role may reach.
type Capability struct {
	Tabs       []Tab
	DefaultTab Tab
}

// capabilities is the role-to-view-set table. Adding a role means adding a
// row here, not another conditional.
var capabilities = map[models.Role]Capability{
	models.RoleClientUser: {
		Tabs: []Tab{
			TabDashboard, TabFinance, TabDocuments,
			TabBeneficiaries, TabOrganisationBank, TabProfile,
		},
		DefaultTab: TabDashboard,
	},
	models.RoleCAAccountant: {
		Tabs:       []Tab{TabDashboard, TabTasks, TabProfile},
		DefaultTab: TabDashboard,
	},
}

// actionTargets maps each quick action to the tab that consumes it.
var actionTargets = map[QuickAction]Tab{
	ActionAddBeneficiary:      TabBeneficiaries,
	ActionAddInvoice:          TabFinance,
	ActionAddVoucher:          TabFinance,
	ActionAddOrganisationBank: TabOrganisationBank,
}

// entityScoped are the tabs that must not render without a current entity.
var entityScoped = map[Tab]bool{
	TabDashboard:        true,
	TabFinance:          true,
	TabDocuments:        true,
	TabOrganisationBank: true,
}

// CapabilityFor returns the capability row for a role. Unknown roles get no
// tabs at all.
func CapabilityFor(role models.Role) Capability {
	return capabilities[role]
}

// Allowed reports whether a role may open a tab.
func Allowed(role models.Role, tab Tab) bool {
	for _, t := range capabilities[role].Tabs {
		if t == tab {
			return true
		}
	}
	return false
}

// State is the navigation state of one client session.
type State struct {
	ActiveTab       Tab
	CurrentEntityID string
	quickAction     QuickAction
}

// NewState returns the initial navigation state for a role.
func NewState(role models.Role) *State {
	return &State{ActiveTab: CapabilityFor(role).DefaultTab}
}

// SelectTab switches the active tab.
func (s *State) SelectTab(tab Tab) {
	s.ActiveTab = tab
}

// SelectEntity switches the current entity and returns to the dashboard.
func (s *State) SelectEntity(entityID string) {
	s.CurrentEntityID = entityID
	s.ActiveTab = TabDashboard
}

// ResolveEntity auto-selects an entity when none is set: the first entity
// membership, else the organization fallback. It returns the resolved id.
func (s *State) ResolveEntity(sess *models.Session) string {
	if s.CurrentEntityID != "" || sess == nil {
		return s.CurrentEntityID
	}
	if len(sess.Entities) > 0 {
		s.CurrentEntityID = sess.Entities[0].ID
	} else if sess.OrganizationID != "" {
		s.CurrentEntityID = sess.OrganizationID
	}
	return s.CurrentEntityID
}

// EntityName resolves an entity id to its display name, falling back to the
// organization name and then a selection prompt.
func EntityName(sess *models.Session, entityID string) string {
	if sess != nil {
		for _, e := range sess.Entities {
			if e.ID == entityID {
				return e.Name
			}
		}
		if entityID != "" && entityID == sess.OrganizationID {
			return sess.OrganizationName
		}
	}
	return "Select Entity"
}

// Trigger sets a quick action and switches to the tab responsible for it.
// A new action overwrites any in-flight one; unknown actions are ignored.
func (s *State) Trigger(action QuickAction) bool {
	target, ok := actionTargets[action]
	if !ok {
		return false
	}
	s.ActiveTab = target
	s.quickAction = action
	return true
}

// ConsumeQuickAction returns the in-flight quick action and clears it.
func (s *State) ConsumeQuickAction() (QuickAction, bool) {
	if s.quickAction == "" {
		return "", false
	}
	action := s.quickAction
	s.quickAction = ""
	return action, true
}

// Resolve maps the current state to a renderable view. Entity-scoped tabs
// render a loading placeholder until an entity is selected, so no request is
// ever issued with an undefined entity context. A tab the role may not open
// falls back to the role's default.
func Resolve(role models.Role, s *State) View {
	tab := s.ActiveTab
	if !Allowed(role, tab) {
		tab = CapabilityFor(role).DefaultTab
		if tab == "" {
			return ViewLoading
		}
	}
	if entityScoped[tab] && role == models.RoleClientUser && s.CurrentEntityID == "" {
		return ViewLoading
	}
	return View(tab)
}
