package warranty

import (
	"net/http"

	"WarrantyDesk/api/constants"
)

// LoginPage serves the credential form with the CAPTCHA widget.
func LoginPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(constants.ContentTypeText, "text/html; charset=utf-8")
	w.Write([]byte(loginPageHTML))
}

// DashboardPage serves the dashboard shell. Data is fetched by the page
// itself from /api/warranty-data.
func DashboardPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(constants.ContentTypeText, "text/html; charset=utf-8")
	w.Write([]byte(dashboardHTML))
}

const loginPageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Unnati Motors Warranty Management</title>
<style>
body { margin: 0; font-family: 'Segoe UI', Arial, sans-serif; background: #f5f5f5; }
.login-wrapper { display: flex; min-height: 100vh; }
.login-left { flex: 1; display: flex; flex-direction: column; justify-content: center; padding: 60px; background: #fff; }
.login-right { flex: 1; display: flex; align-items: center; justify-content: center; background: linear-gradient(135deg, #FF8C00, #e67300); color: #fff; }
.logo-section h1 { color: #FF8C00; margin-bottom: 8px; }
.logo-section p { color: #666; font-size: 14px; margin: 4px 0; }
.form-group { margin: 16px 0; }
.form-group label { display: block; font-weight: 600; margin-bottom: 6px; }
.form-group input { width: 100%; padding: 10px; border: 2px solid #e0e0e0; border-radius: 4px; box-sizing: border-box; }
.captcha-section { margin: 16px 0; padding: 12px; background: #fafafa; border-radius: 8px; }
.captcha-image { width: 100%; height: auto; margin-bottom: 10px; border-radius: 4px; }
.captcha-section input { width: 100%; padding: 8px; border: 2px solid #e0e0e0; border-radius: 4px; box-sizing: border-box; }
.error-message { color: #c0392b; font-size: 14px; min-height: 18px; margin: 8px 0; }
.login-btn { width: 100%; padding: 12px; background: #FF8C00; color: #fff; border: none; border-radius: 6px; font-weight: 600; cursor: pointer; }
.right-content h2 { font-size: 32px; margin-bottom: 20px; }
</style>
</head>
<body>
<div class="login-wrapper">
  <div class="login-left">
    <div class="logo-section">
      <h1>Unnati Motors Warranty Management</h1>
      <p>Mahindra All Division Warranty Overview Dashboard</p>
      <p>Enter your credentials to access the warranty dashboard</p>
    </div>
    <form class="login-form" onsubmit="handleLogin(event)">
      <div class="form-group">
        <label for="userId">User ID</label>
        <input type="text" id="userId" placeholder="Enter your User ID" required>
      </div>
      <div class="form-group">
        <label for="password">Password</label>
        <input type="password" id="password" placeholder="Enter your password" required>
      </div>
      <div class="captcha-section">
        <img id="captchaImage" class="captcha-image" src="" alt="CAPTCHA">
        <input type="text" id="captchaInput" placeholder="Enter CAPTCHA" required>
      </div>
      <div class="error-message" id="errorMessage"></div>
      <button type="submit" class="login-btn">Login</button>
    </form>
  </div>
  <div class="login-right">
    <div class="right-content">
      <h2>Welcome</h2>
      <p>Welcome to Warranty Management System</p>
    </div>
  </div>
</div>
<script>
var currentCaptcha = '';

async function loadCaptcha() {
  try {
    var response = await fetch('/api/captcha');
    var data = await response.json();
    currentCaptcha = data.captcha;
    document.getElementById('captchaImage').src = data.image;
  } catch (error) {
    console.error('Error loading CAPTCHA:', error);
  }
}

async function handleLogin(event) {
  event.preventDefault();
  var userId = document.getElementById('userId').value;
  var password = document.getElementById('password').value;
  var captchaInput = document.getElementById('captchaInput').value;
  var errorDiv = document.getElementById('errorMessage');

  if (captchaInput.toUpperCase() !== currentCaptcha) {
    errorDiv.textContent = 'CAPTCHA is incorrect';
    loadCaptcha();
    return;
  }

  try {
    var response = await fetch('/api/login', {
      method: 'POST',
      headers: { 'Content-Type': 'application/json' },
      credentials: 'include',
      body: JSON.stringify({ user_id: userId, password: password })
    });
    if (response.ok) {
      window.location.href = '/dashboard';
    } else {
      var err = await response.json();
      errorDiv.textContent = err.error || 'Login failed';
      loadCaptcha();
    }
  } catch (error) {
    errorDiv.textContent = 'Error: ' + error.message;
  }
}

window.onload = loadCaptcha;
</script>
</body>
</html>
`

const dashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Unnati Warranty Management Dashboard</title>
<style>
body { margin: 0; font-family: 'Segoe UI', Arial, sans-serif; background: #f5f5f5; color: #333; }
.header { background: linear-gradient(135deg, #FF8C00, #e67300); color: #fff; padding: 18px 28px; display: flex; justify-content: space-between; align-items: center; }
.header h1 { margin: 0; font-size: 22px; }
.header .actions button { margin-left: 8px; padding: 8px 14px; border: none; border-radius: 6px; cursor: pointer; font-weight: 600; background: #fff; color: #e67300; }
.dashboard-content { padding: 24px; }
.export-bar { background: #fff; border-radius: 8px; padding: 14px 18px; margin-bottom: 18px; display: flex; gap: 12px; align-items: center; flex-wrap: wrap; }
.export-bar select { padding: 8px; border: 2px solid #e0e0e0; border-radius: 4px; }
.export-bar button { padding: 9px 16px; background: #FF8C00; color: #fff; border: none; border-radius: 6px; font-weight: 600; cursor: pointer; }
.tab-bar { display: flex; gap: 6px; margin-bottom: 14px; flex-wrap: wrap; }
.tab-bar button { padding: 9px 14px; border: none; border-radius: 6px 6px 0 0; cursor: pointer; background: #e8e8e8; font-weight: 600; }
.tab-bar button.active { background: #FF8C00; color: #fff; }
.tab-panel { display: none; background: #fff; border-radius: 0 8px 8px 8px; padding: 16px; overflow-x: auto; }
.tab-panel.active { display: block; }
table { border-collapse: collapse; width: 100%; font-size: 13px; }
th { background: #FF8C00; color: #fff; padding: 8px 10px; text-align: left; white-space: nowrap; }
td { border-bottom: 1px solid #eee; padding: 7px 10px; white-space: nowrap; }
tr:last-child td { font-weight: 700; background: #fff3e6; }
#spinner { padding: 40px; text-align: center; color: #666; }
#notice { font-size: 13px; color: #666; margin-bottom: 10px; }
</style>
</head>
<body>
<div class="header">
  <h1>Unnati Warranty Management Dashboard</h1>
  <div class="actions">
    <button onclick="refreshData()">Refresh</button>
    <button onclick="changePassword()">Change Password</button>
    <button onclick="logout()">Logout</button>
  </div>
</div>
<div class="dashboard-content">
  <div id="notice"></div>
  <div class="export-bar">
    <label for="divisionFilter"><b>Division</b></label>
    <select id="divisionFilter"><option value="All">All</option></select>
    <label for="exportType"><b>Report</b></label>
    <select id="exportType">
      <option value="credit">Credit</option>
      <option value="debit">Debit</option>
      <option value="arbitration">Arbitration</option>
      <option value="currentmonth">Current Month</option>
      <option value="compensation">Compensation</option>
      <option value="pr_approval">PR Approval</option>
    </select>
    <button id="exportBtn" onclick="exportToExcel()">Export to Excel</button>
  </div>
  <div id="spinner">Loading warranty data...</div>
  <div id="tabs" style="display:none">
    <div class="tab-bar">
      <button class="active" onclick="showTab(event, 'credit')">Credit</button>
      <button onclick="showTab(event, 'debit')">Debit</button>
      <button onclick="showTab(event, 'arbitration')">Arbitration</button>
      <button onclick="showTab(event, 'currentMonth')">Current Month</button>
      <button onclick="showTab(event, 'compensation')">Compensation</button>
      <button onclick="showTab(event, 'prApproval')">PR Approval</button>
    </div>
    <div class="tab-panel active" id="panel-credit"><table id="creditTable"><thead></thead><tbody></tbody></table></div>
    <div class="tab-panel" id="panel-debit"><table id="debitTable"><thead></thead><tbody></tbody></table></div>
    <div class="tab-panel" id="panel-arbitration"><table id="arbitrationTable"><thead></thead><tbody></tbody></table></div>
    <div class="tab-panel" id="panel-currentMonth"><table id="currentMonthTable"><thead></thead><tbody></tbody></table></div>
    <div class="tab-panel" id="panel-compensation"><table id="compensationTable"><thead></thead><tbody></tbody></table></div>
    <div class="tab-panel" id="panel-prApproval"><table id="prApprovalTable"><thead></thead><tbody></tbody></table></div>
  </div>
</div>
<script>
var warrantyData = null;

function showTab(event, key) {
  var buttons = document.querySelectorAll('.tab-bar button');
  for (var i = 0; i < buttons.length; i++) buttons[i].classList.remove('active');
  event.target.classList.add('active');
  var panels = document.querySelectorAll('.tab-panel');
  for (var j = 0; j < panels.length; j++) panels[j].classList.remove('active');
  document.getElementById('panel-' + key).classList.add('active');
}

function renderTable(tableId, data) {
  var table = document.getElementById(tableId);
  if (!data || data.length === 0) {
    table.querySelector('thead').innerHTML = '';
    table.querySelector('tbody').innerHTML = '<tr><td>No data available</td></tr>';
    return;
  }
  var headers = Object.keys(data[0]);
  table.querySelector('thead').innerHTML = '<tr>' + headers.map(function (h) {
    return '<th>' + h + '</th>';
  }).join('') + '</tr>';
  table.querySelector('tbody').innerHTML = data.map(function (row) {
    return '<tr>' + headers.map(function (h) {
      var value = row[h];
      if (typeof value === 'number') value = value.toLocaleString('en-IN', { maximumFractionDigits: 0 });
      return '<td>' + value + '</td>';
    }).join('') + '</tr>';
  }).join('');
}

function loadDivisions() {
  var seen = { 'All': true };
  var select = document.getElementById('divisionFilter');
  select.innerHTML = '<option value="All">All</option>';
  var sections = ['credit', 'debit', 'arbitration', 'currentMonth', 'compensation', 'prApproval'];
  sections.forEach(function (key) {
    (warrantyData[key] || []).forEach(function (row) {
      var div = row['Division'];
      if (div && div !== 'Grand Total' && !seen[div]) {
        seen[div] = true;
        var opt = document.createElement('option');
        opt.value = div;
        opt.textContent = div;
        select.appendChild(opt);
      }
    });
  });
}

async function loadDashboard() {
  var spinner = document.getElementById('spinner');
  var tabs = document.getElementById('tabs');
  spinner.style.display = 'block';
  tabs.style.display = 'none';
  try {
    var response = await fetch('/api/warranty-data', { method: 'GET', credentials: 'include' });
    if (response.status === 401) {
      window.location.href = '/login-page';
      return;
    }
    if (!response.ok) throw new Error('HTTP ' + response.status);
    warrantyData = await response.json();
    renderTable('creditTable', warrantyData.credit);
    renderTable('debitTable', warrantyData.debit);
    renderTable('arbitrationTable', warrantyData.arbitration);
    renderTable('currentMonthTable', warrantyData.currentMonth);
    renderTable('compensationTable', warrantyData.compensation);
    renderTable('prApprovalTable', warrantyData.prApproval);
    loadDivisions();
    spinner.style.display = 'none';
    tabs.style.display = 'block';
  } catch (error) {
    spinner.textContent = 'Error loading warranty data: ' + error.message;
  }
}

async function exportToExcel() {
  var division = document.getElementById('divisionFilter').value;
  var type = document.getElementById('exportType').value;
  var exportBtn = document.getElementById('exportBtn');
  exportBtn.disabled = true;
  exportBtn.textContent = 'Exporting...';
  try {
    var response = await fetch('/api/export-to-excel', {
      method: 'POST',
      headers: { 'Content-Type': 'application/json' },
      credentials: 'include',
      body: JSON.stringify({ division: division, type: type })
    });
    if (!response.ok) {
      var err = await response.json().catch(function () { return {}; });
      throw new Error(err.error || 'Export failed');
    }
    var blob = await response.blob();
    var url = window.URL.createObjectURL(blob);
    var a = document.createElement('a');
    a.href = url;
    a.download = type + '_' + division + '_' + new Date().toISOString().split('T')[0] + '.xlsx';
    document.body.appendChild(a);
    a.click();
    window.URL.revokeObjectURL(url);
    document.body.removeChild(a);
  } catch (error) {
    alert('Export failed: ' + error.message);
  } finally {
    exportBtn.disabled = false;
    exportBtn.textContent = 'Export to Excel';
  }
}

async function refreshData() {
  document.getElementById('notice').textContent = 'Rebuilding dataset...';
  try {
    var response = await fetch('/api/refresh', { method: 'POST', credentials: 'include' });
    if (response.status === 401) {
      window.location.href = '/login-page';
      return;
    }
    await loadDashboard();
    document.getElementById('notice').textContent = 'Data refreshed';
  } catch (error) {
    document.getElementById('notice').textContent = 'Refresh failed: ' + error.message;
  }
}

async function changePassword() {
  var current = prompt('Current password');
  if (current === null) return;
  var next = prompt('New password (minimum 6 characters)');
  if (next === null) return;
  try {
    var response = await fetch('/api/change-password', {
      method: 'POST',
      headers: { 'Content-Type': 'application/json' },
      credentials: 'include',
      body: JSON.stringify({ current_password: current, new_password: next })
    });
    var result = await response.json();
    alert(result.message || result.error || 'Done');
  } catch (error) {
    alert('Error: ' + error.message);
  }
}

async function logout() {
  try {
    await fetch('/api/logout', { method: 'POST', credentials: 'include' });
  } finally {
    window.location.href = '/login-page';
  }
}

function subscribeEvents() {
  try {
    var source = new EventSource('/api/events');
    source.onmessage = function (event) {
      var payload = JSON.parse(event.data);
      if (payload.type === 'rebuild') {
        document.getElementById('notice').textContent = 'Data updated at ' + payload.time + ', reloading...';
        loadDashboard();
      }
    };
    source.onerror = function () {
      source.close();
      setTimeout(subscribeEvents, 30000);
    };
  } catch (error) {
    console.error('Event stream unavailable:', error);
  }
}

window.onload = function () {
  loadDashboard();
  subscribeEvents();
};
</script>
</body>
</html>
`
