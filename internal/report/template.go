// file: internal/report/template.go
// version: 1.0.0
// guid: 4d5e6f7a-8b9c-0d1e-2f3a-4b5c6d7e8f9a

package report

import "html/template"

// pageTemplate is the fixed report page. The dataset and the MoA list are
// injected as pre-serialized JSON; the script block never changes.
var pageTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Drug Clustering Explorer</title>
<script src="https://cdn.plot.ly/plotly-2.35.2.min.js"></script>
<style>
body { font-family: Arial, sans-serif; margin: 0; padding: 20px; background: #f5f5f5; }
h1 { margin-top: 0; }
#controls { background: #fff; border-radius: 6px; padding: 12px 16px; margin-bottom: 12px; }
#controls select, #controls button { margin-right: 8px; padding: 6px 10px; }
#plot { background: #fff; border-radius: 6px; height: 720px; }
#highlight-info { margin-left: 12px; color: #555; }
#summary { color: #666; font-size: 0.9em; margin-bottom: 12px; }
</style>
</head>
<body>
<h1>Drug Clustering Explorer</h1>
<div id="summary">
{{.NumDrugs}} drugs in {{.NumClusters}} clusters &middot; generated {{.GeneratedAt}}
</div>
<div id="controls">
<label for="moa-select">Mechanism of action:</label>
<select id="moa-select"><option value="">-- select --</option></select>
<button id="highlight-btn">Highlight</button>
<button id="reset-btn">Reset</button>
<span id="highlight-info"></span>
</div>
<div id="plot"></div>
<script>
var dataset = {{.Data}};
var uniqueMoas = {{.MoAs}};

var clusterColors = [
  '#1f77b4', '#ff7f0e', '#2ca02c', '#d62728', '#9467bd',
  '#8c564b', '#e377c2', '#7f7f7f', '#bcbd22', '#17becf'
];

function buildTraces(highlightMoa) {
  var traces = [];
  for (var c = 0; c < dataset.num_clusters; c++) {
    var xs = [], ys = [], zs = [], texts = [];
    dataset.drugs.forEach(function(d) {
      if (d.cluster !== c) return;
      xs.push(d.x); ys.push(d.y); zs.push(d.z);
      var hover = d.name + '<br>Cluster ' + d.cluster;
      if (d.moa) hover += '<br>MoA: ' + d.moa;
      texts.push(hover);
    });
    var dimmed = highlightMoa ? 0.15 : 0.85;
    traces.push({
      type: 'scatter3d',
      mode: 'markers',
      name: 'Cluster ' + c,
      x: xs, y: ys, z: zs,
      text: texts,
      hoverinfo: 'text',
      marker: { size: 4, color: clusterColors[c % clusterColors.length], opacity: dimmed }
    });
  }
  if (highlightMoa) {
    var hx = [], hy = [], hz = [], ht = [];
    dataset.drugs.forEach(function(d) {
      if (d.moa !== highlightMoa) return;
      hx.push(d.x); hy.push(d.y); hz.push(d.z);
      ht.push(d.name + '<br>Cluster ' + d.cluster + '<br>MoA: ' + d.moa);
    });
    traces.push({
      type: 'scatter3d',
      mode: 'markers',
      name: highlightMoa,
      x: hx, y: hy, z: hz,
      text: ht,
      hoverinfo: 'text',
      marker: { size: 7, color: '#000000', symbol: 'diamond', opacity: 1.0 }
    });
  }
  return traces;
}

var layout = {
  margin: { l: 0, r: 0, t: 0, b: 0 },
  scene: {
    xaxis: { title: 'PC1' },
    yaxis: { title: 'PC2' },
    zaxis: { title: 'PC3' }
  },
  legend: { x: 0, y: 1 }
};

Plotly.newPlot('plot', buildTraces(null), layout, { responsive: true });

var moaSelect = document.getElementById('moa-select');
uniqueMoas.forEach(function(moa) {
  var option = document.createElement('option');
  option.value = moa;
  option.textContent = moa;
  moaSelect.appendChild(option);
});

document.getElementById('highlight-btn').addEventListener('click', function() {
  var selected = moaSelect.value;
  if (!selected) {
    alert('Please select a Mechanism of Action first');
    return;
  }
  var count = dataset.drugs.filter(function(d) { return d.moa === selected; }).length;
  document.getElementById('highlight-info').textContent =
    count + ' drug(s) with this mechanism';
  Plotly.react('plot', buildTraces(selected), layout, { responsive: true });
});

document.getElementById('reset-btn').addEventListener('click', function() {
  moaSelect.value = '';
  document.getElementById('highlight-info').textContent = '';
  Plotly.react('plot', buildTraces(null), layout, { responsive: true });
});
</script>
</body>
</html>
`))
